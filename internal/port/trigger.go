package port

// TriggerInput is a named event input. Triggers carry no data; they signal
// "execute now" along a graph kept separate from value connections.
type TriggerInput struct {
	Name string
}

// TriggerOutput is a named event output.
type TriggerOutput struct {
	Name string
}
