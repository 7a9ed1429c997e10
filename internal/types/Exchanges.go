/*

This file contains the exchange identifiers for the venues battles can be
fought on.

*/

package types

// ExchangeID tags the venue a position lives on. It indexes into the fixed
// cross-exchange weight table; ids outside the table are valid input and get
// the neutral weight.
type ExchangeID uint8

const (
	ExchangeUniswapV4 ExchangeID = 0
	ExchangeCamelotV3 ExchangeID = 1
)

// String returns a human-readable venue name for logging and API output.
func (e ExchangeID) String() string {
	switch e {
	case ExchangeUniswapV4:
		return "UNISWAP_V4"
	case ExchangeCamelotV3:
		return "CAMELOT_V3"
	default:
		return "UNKNOWN"
	}
}
