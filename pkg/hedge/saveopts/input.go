package saveopts

// Input is the unvalidated snapshot of every control at confirmation time.
type Input struct {
	Variant       string `json:"variant"`
	Padding       uint64 `json:"padding"`
	GenerateIndex bool   `json:"generate_arl"`
	Split         bool   `json:"split"`
	SplitSize     uint64 `json:"split_size"`
}

// DefaultInput mirrors Default.
func DefaultInput() Input {
	return Default().Input()
}

// Build parses the variant name and validates the rest.
func (in Input) Build() (Config, error) {
	v, err := ParseVariant(in.Variant)
	if err != nil {
		return Config{}, err
	}
	return Build(v, in.Padding, in.GenerateIndex, in.Split, in.SplitSize)
}
