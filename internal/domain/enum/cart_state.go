package enum

import (
	"encoding/json"
	"fmt"
)

// CartState is the lifecycle state of the bill being composed.
type CartState int

const (
	// CartEditable accepts line and header edits.
	CartEditable CartState = 0
	// CartSaving is set the moment a save starts and lasts until it resolves.
	CartSaving CartState = 1
	// CartLocked holds a saved bill until the cart is reset.
	CartLocked CartState = 2
)

func (s CartState) String() string {
	switch s {
	case CartEditable:
		return "Editable"
	case CartSaving:
		return "Saving"
	case CartLocked:
		return "Locked"
	}
	return "Unknown"
}

// AcceptsEdits reports whether lines and header fields may change.
func (s CartState) AcceptsEdits() bool {
	return s == CartEditable
}

func (s CartState) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *CartState) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for _, st := range []CartState{CartEditable, CartSaving, CartLocked} {
		if st.String() == name {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("unknown cart state %q", name)
}
