package workbench

import (
	"fmt"

	"github.com/scr8/sqlopsstudio/internal/action"
)

// Instantiator creates action instances from descriptor factories. Each
// invocation gets a fresh instance; nothing is pooled or cached.
type Instantiator struct{}

// NewInstantiator returns the standard instantiation service.
func NewInstantiator() *Instantiator {
	return &Instantiator{}
}

// CreateInstance runs the factory and returns the new action.
func (in *Instantiator) CreateInstance(f action.Factory) (action.Action, error) {
	if f == nil {
		return nil, fmt.Errorf("nil action factory")
	}
	inst, err := f()
	if err != nil {
		return nil, err
	}
	if inst == nil {
		return nil, fmt.Errorf("action factory returned nil instance")
	}
	return inst, nil
}
