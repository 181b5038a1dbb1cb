package checkout

import "errors"

var (
	ErrSessionExpired = errors.New("session expired, please log in again")
	ErrCartEmpty      = errors.New("your cart is empty")
)

// MsgOrderPlaced is reported on success; the server's own message is only logged.
const MsgOrderPlaced = "order placed successfully"
