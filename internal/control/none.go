package control

// None never touches the controls.
type None struct{}

func NewNone() *None { return &None{} }

func (n *None) Compute(Status, float64) Input { return Input{} }
