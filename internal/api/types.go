package api

import "portintel/pkg/portintel"

type analyzeRequest struct {
	Transactions []portintel.Transaction `json:"transactions"`
}

type savePortfolioRequest struct {
	Name         string                  `json:"name"`
	Transactions []portintel.Transaction `json:"transactions"`
}

type aiAdviceRequest struct {
	APIKey       string                  `json:"api_key"`
	Model        string                  `json:"model"`
	Transactions []portintel.Transaction `json:"transactions"`
	Portfolio    string                  `json:"portfolio,omitempty"`
}

type priceResponse struct {
	Quote *portintel.LatestPrice `json:"quote"`
	Live  bool                   `json:"live"`
}
