package cache_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/softcache/cache"
	"github.com/sarchlab/softcache/cl"
)

var _ = Describe("Cache over the software device", func() {
	var (
		device *cl.SimDriver
		ctx    cl.Context
		queue  cl.CommandQueue
	)

	BeforeEach(func() {
		device = cl.NewSimDriver()
		ctx = device.CreateContext()
		queue = device.CreateCommandQueue(ctx)
	})

	It("should elide repeated uploads of an unchanged region", func() {
		c := cache.MakeBuilder().
			WithDriver(device).
			WithOrganisation(cache.FullyAssociative).
			WithCacheSize(4).
			Build("Cache")

		host := []byte{1, 2, 3, 4}
		device.RegisterHostRegion(0x100, host)

		flags := cl.MemReadWrite | cl.MemCopyHostPtr
		first, status := c.CreateBuffer(ctx, flags, 4, 0x100)
		Expect(status).To(Equal(cl.Success))

		second, status := c.CreateBuffer(ctx, flags, 4, 0x100)
		Expect(status).To(Equal(cl.Success))
		Expect(second).To(Equal(first))

		// Only one device buffer was ever created.
		Expect(device.LiveBuffers()).To(Equal(1))
		Expect(c.Stats().Hits).To(Equal(uint64(1)))
	})

	It("should surface kernel results on the host only after an "+
		"explicit write-back", func() {
		c := cache.MakeBuilder().
			WithDriver(device).
			WithOrganisation(cache.FullyAssociative).
			WithCacheSize(2).
			WithWriteBack(true).
			Build("Cache")

		kernel := device.CreateKernel("fill", func(
			args [][]byte,
			globalWorkSize []int,
		) {
			for i := range args[0] {
				args[0][i] = 9
			}
		})

		host := make([]byte, 4)
		device.RegisterHostRegion(0x200, host)

		buf, status := device.CreateBuffer(ctx, cl.MemReadWrite, 4, 0x200)
		Expect(status).To(Equal(cl.Success))

		_, status = c.WriteBuffer(queue, &buf, true, 0, 4, 0x200, nil)
		Expect(status).To(Equal(cl.Success))

		Expect(c.SetKernelArg(kernel, 0, 8, 0x200)).To(Equal(cl.Success))

		_, status = c.EnqueueNDRangeKernel(queue, kernel, []int{4}, nil, nil)
		Expect(status).To(Equal(cl.Success))

		// The elided read leaves the host copy stale.
		_, status = c.EnqueueReadBuffer(queue, buf, true, 0, 4, 0x200, nil)
		Expect(status).To(Equal(cl.Success))
		Expect(host).To(Equal(make([]byte, 4)))

		Expect(c.WriteBackBuffer(0x200)).To(Equal(cl.Success))
		Expect(host).To(Equal([]byte{9, 9, 9, 9}))
	})

	It("should flush dirty victims to the host on eviction", func() {
		c := cache.MakeBuilder().
			WithDriver(device).
			WithOrganisation(cache.FullyAssociative).
			WithCacheSize(1).
			WithWriteBack(true).
			Build("Cache")

		kernel := device.CreateKernel("fill", func(
			args [][]byte,
			globalWorkSize []int,
		) {
			for i := range args[0] {
				args[0][i] = 7
			}
		})

		hostA := make([]byte, 4)
		hostB := []byte{1, 1, 1, 1}
		device.RegisterHostRegion(0x300, hostA)
		device.RegisterHostRegion(0x400, hostB)

		bufA, _ := device.CreateBuffer(ctx, cl.MemReadWrite, 4, 0x300)
		_, status := c.WriteBuffer(queue, &bufA, true, 0, 4, 0x300, nil)
		Expect(status).To(Equal(cl.Success))

		c.SetKernelArg(kernel, 0, 8, 0x300)
		_, status = c.EnqueueNDRangeKernel(queue, kernel, []int{4}, nil, nil)
		Expect(status).To(Equal(cl.Success))

		// Inserting a second region into the single line evicts the
		// dirty one, flushing it first.
		bufB, _ := device.CreateBuffer(ctx, cl.MemReadWrite, 4, 0x400)
		_, status = c.WriteBuffer(queue, &bufB, true, 0, 4, 0x400, nil)
		Expect(status).To(Equal(cl.Success))

		Expect(hostA).To(Equal([]byte{7, 7, 7, 7}))
		Expect(device.LiveBuffers()).To(Equal(1))
	})
})
