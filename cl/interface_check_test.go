package cl_test

import (
	"github.com/sarchlab/softcache/cl"
)

var _ cl.Driver = (*cl.SimDriver)(nil)
