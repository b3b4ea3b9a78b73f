package di

import (
	"go.uber.org/dig"
)

type (
	Container = dig.Container
	Function  = interface{}
	In        = dig.In
	Out       = dig.Out
)

var Default = New()

func New() *Container { return dig.New() }

func Provide(c *Container, constructor Function) error {
	return c.Provide(constructor)
}

func MustProvide(c *Container, constructor Function) {
	err := Provide(c, constructor)
	if err != nil {
		panic(err)
	}
}

func Invoke(c *Container, f Function) error {
	return c.Invoke(f)
}

func MustInvoke(c *Container, f Function) {
	err := Invoke(c, f)
	if err != nil {
		panic(err)
	}
}
