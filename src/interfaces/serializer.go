package interfaces

// -----------------------------------------------------------------------------

// ISerializer defines the contract for marshaling and unmarshaling data.
// Publishers stay agnostic about the wire format.
type ISerializer interface {
	Marshal(obj interface{}) ([]byte, error)

	Unmarshal(data []byte, obj interface{}) error
}
