package main

import (
	"errors"

	"github.com/deepvalue/deepset/container"

	log "github.com/sirupsen/logrus"
)

func main() {
	logger := log.WithFields(log.Fields{"demo": "deepset"})
	logger.Logger.SetFormatter(&log.TextFormatter{
		FullTimestamp: true,
	})
	logger.Level = log.InfoLevel

	// value semantics: insertion order does not matter
	a, err := container.NewSetOf(container.Int(1), container.Int(2), container.Int(3))
	if err != nil {
		logger.Fatal(err)
	}
	b, err := container.NewSetOf(container.Int(3), container.Int(2), container.Int(1))
	if err != nil {
		logger.Fatal(err)
	}
	logger.Info("sets built in different orders: equal=", a.Equals(b))

	union := a.Union(b)
	logger.Info("union ", union, " size=", union.Size())

	ps, err := a.Powerset()
	if err != nil {
		logger.Fatal(err)
	}
	logger.Info("powerset of ", a, " has ", ps.Size(), " subsets")

	states, err := container.NewSetOf(container.String("q0"), container.String("q1"))
	if err != nil {
		logger.Fatal(err)
	}
	symbols, err := container.NewSetOf(container.Int(0), container.Int(1))
	if err != nil {
		logger.Fatal(err)
	}
	pairs := states.CartesianProduct(symbols)
	logger.Info("transition domain ", pairs)

	// tuple-keyed transition table: (state, symbol) -> state
	delta := container.NewMap()
	key, err := container.NewTuple(container.String("q0"), container.Int(1))
	if err != nil {
		logger.Fatal(err)
	}
	if err := delta.Set(key, container.String("q1")); err != nil {
		logger.Fatal(err)
	}
	probe, err := container.NewTuple(container.String("q0"), container.Int(1))
	if err != nil {
		logger.Fatal(err)
	}
	next, _ := delta.Get(probe)
	logger.Info("delta(q0, 1) = ", next)

	// freeze lifecycle: hashing pins the content
	a.HashCode()
	if err := a.Add(container.Int(4)); errors.Is(err, container.ErrFrozenMutation) {
		logger.Info("frozen as expected: ", err)
	}
	c := a.MutableCopy()
	if err := c.Add(container.Int(4)); err != nil {
		logger.Fatal(err)
	}
	logger.Info("mutable copy grew to ", c, " while original stayed ", a)
}
