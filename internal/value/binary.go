package value

import "fmt"

// BinaryValue is the Payload for the Binary kind: a raw byte series.
type BinaryValue struct {
	Bytes []byte
}

func (b *BinaryValue) Len() int { return len(b.Bytes) }

func (b *BinaryValue) Mold() string {
	return fmt.Sprintf("#{%x}", b.Bytes)
}
