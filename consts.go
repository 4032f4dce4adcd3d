package adapters

const (
	ErrMsgNilDriver       = "Driver must not be nil."
	ErrMsgNoIntrospection = "Driver does not support schema introspection."
	ErrMsgRegistryName    = "Registry name must not be empty."
)
