package datapilot

// Validatable is implemented by argument structs that need custom business
// validation. Called after schema validation and unmarshaling.
type Validatable interface {
	Validate() error
}

// validateCustom runs Layer 2 (Validatable) if args implements it.
func validateCustom(args any) error {
	if v, ok := args.(Validatable); ok {
		return v.Validate()
	}
	return nil
}
