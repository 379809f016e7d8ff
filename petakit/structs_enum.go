// Code generated by go-enum
// DO NOT EDIT!

package petakit

import (
	"fmt"
)

const (
	// InterpolationMethodLinear is a InterpolationMethod of type Linear
	InterpolationMethodLinear InterpolationMethod = iota
	// InterpolationMethodCubic is a InterpolationMethod of type Cubic
	InterpolationMethodCubic
	// InterpolationMethodNearest is a InterpolationMethod of type Nearest
	InterpolationMethodNearest
)

const _InterpolationMethodName = "linearcubicnearest"

var _InterpolationMethodMap = map[InterpolationMethod]string{
	0: _InterpolationMethodName[0:6],
	1: _InterpolationMethodName[6:11],
	2: _InterpolationMethodName[11:18],
}

// String implements the Stringer interface.
func (x InterpolationMethod) String() string {
	if str, ok := _InterpolationMethodMap[x]; ok {
		return str
	}
	return fmt.Sprintf("InterpolationMethod(%d)", x)
}

var _InterpolationMethodValue = map[string]InterpolationMethod{
	_InterpolationMethodName[0:6]:   0,
	_InterpolationMethodName[6:11]:  1,
	_InterpolationMethodName[11:18]: 2,
}

// ParseInterpolationMethod attempts to convert a string to a InterpolationMethod
func ParseInterpolationMethod(name string) (InterpolationMethod, error) {
	if x, ok := _InterpolationMethodValue[name]; ok {
		return x, nil
	}
	return InterpolationMethod(0), fmt.Errorf("%s is not a valid InterpolationMethod", name)
}

// MarshalText implements the text marshaller method
func (x InterpolationMethod) MarshalText() ([]byte, error) {
	return []byte(x.String()), nil
}

// UnmarshalText implements the text unmarshaller method
func (x *InterpolationMethod) UnmarshalText(text []byte) error {
	name := string(text)
	tmp, err := ParseInterpolationMethod(name)
	if err != nil {
		return err
	}
	*x = tmp
	return nil
}
