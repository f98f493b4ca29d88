package model

import "math/big"

// MasterSecret is the holder's long-lived hidden attribute, blinded into
// every credential it requests so that credentials issued to the same
// holder can be proven (in zero knowledge) to share an owner without
// revealing who that owner is. It is never marshaled to JSON.
type MasterSecret struct {
	Value *big.Int
}
