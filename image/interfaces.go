package image

// Target receives packed graphic data, e.g. a printer writing a GW command.
type Target interface {
	Graphic(x, y, bytesWidth, height int, data []byte) error
}
