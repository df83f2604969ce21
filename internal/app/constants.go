package app

// LandlordShare is how many farmer stakes the landlord wins or loses.
const LandlordShare = 2
