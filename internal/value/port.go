package value

import (
	"context"
	"fmt"
	"time"

	"github.com/zsx/viro-core/internal/core"
)

// PortInstance is the Payload for the Port kind: a unified I/O handle for
// files and other external collaborators (spec.md §1 lists ports among
// the value kinds without mandating their protocol; this is a minimal
// open/read/write/close shape).
type PortInstance struct {
	Scheme  string
	Spec    string
	Driver  PortDriver
	State   PortState
	Timeout *time.Duration
}

type PortState int

const (
	PortClosed PortState = iota
	PortOpen
	PortError
)

func (s PortState) String() string {
	switch s {
	case PortClosed:
		return "closed"
	case PortOpen:
		return "open"
	case PortError:
		return "error"
	default:
		return "unknown"
	}
}

// PortDriver is the scheme-specific implementation a port delegates to.
type PortDriver interface {
	Open(ctx context.Context, spec string) error
	Read(buf []byte) (int, error)
	Write(buf []byte) (int, error)
	Close() error
}

func NewPort(scheme, spec string, driver PortDriver) *PortInstance {
	return &PortInstance{Scheme: scheme, Spec: spec, Driver: driver, State: PortClosed}
}

func (p *PortInstance) String() string {
	if p == nil {
		return "port[closed]"
	}
	return fmt.Sprintf("port[%s %s %s]", p.Scheme, p.State, p.Spec)
}

func PortVal(p *PortInstance) core.Value {
	return Cell{Kind: Port, Payload: p}
}

func AsPort(v core.Value) (*PortInstance, bool) {
	if v == nil || v.GetType() != Port {
		return nil, false
	}
	p, ok := v.GetPayload().(*PortInstance)
	return p, ok
}
