// Package market holds the tradable asset catalog, its stochastic price
// simulation, and currency conversion between the three supported markets.
package market

// Market identifies the exchange an asset trades on. Each market has a fixed
// native currency.
type Market string

const (
	IN Market = "IN" // Indian market, INR
	US Market = "US" // US market, USD
	EU Market = "EU" // EU market, EUR
)

// Currency returns the native currency code for the market. Unknown markets
// report INR, consistent with conversion treating them as rate 1.0.
func (m Market) Currency() string {
	switch m {
	case US:
		return "USD"
	case EU:
		return "EUR"
	default:
		return "INR"
	}
}
