package common

type Module string

const (
	ModuleCanvas Module = "canvas"
)

func (m Module) String() string {
	return string(m)
}
