package api

// ExecutionFlags controls transaction execution behavior
type ExecutionFlags struct {
	OnlyQuery bool `yaml:"only_query"`
	ChargeFee bool `yaml:"charge_fee"`
	Validate  bool `yaml:"validate"`
}

// DefaultExecutionFlags returns execution flags with standard settings
func DefaultExecutionFlags() ExecutionFlags {
	return ExecutionFlags{
		OnlyQuery: false,
		ChargeFee: true,
		Validate:  true,
	}
}
