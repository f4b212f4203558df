package trade

import (
	"errors"

	"github.com/kaiadhikary/BVDU-Bank/book"
	"github.com/kaiadhikary/BVDU-Bank/market"
)

// Every way a trade can fail. All are recoverable at the call site: the
// executor reports the specific failure and performs no mutation.
var (
	ErrAssetNotFound        = market.ErrAssetNotFound
	ErrMarketClosed         = errors.New("market closed")
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrNoSuchPosition       = book.ErrNoPosition
	ErrInsufficientQuantity = book.ErrInsufficientQuantity
	ErrInvalidQuantity      = book.ErrInvalidQuantity
)
