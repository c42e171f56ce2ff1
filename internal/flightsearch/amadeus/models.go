package amadeus

// tokenResponse is the OAuth2 client-credentials grant response.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// offersResponse is the flight-offers search response envelope.
type offersResponse struct {
	Data []offerData `json:"data"`
}

type offerData struct {
	Itineraries []itineraryData `json:"itineraries"`
	Price       priceData       `json:"price"`
}

type itineraryData struct {
	Segments []segmentData `json:"segments"`
}

type segmentData struct {
	Departure   endpointData `json:"departure"`
	Arrival     endpointData `json:"arrival"`
	CarrierCode string       `json:"carrierCode"`
	Number      string       `json:"number"`
}

type endpointData struct {
	IATACode string `json:"iataCode"`
	At       string `json:"at"`
}

type priceData struct {
	Total    string `json:"total"`
	Currency string `json:"currency"`
}

// errorResponse is the API error envelope.
type errorResponse struct {
	Errors []struct {
		Status int    `json:"status"`
		Code   int    `json:"code"`
		Title  string `json:"title"`
		Detail string `json:"detail"`
	} `json:"errors"`
}
