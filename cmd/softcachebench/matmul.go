package main

import (
	"encoding/binary"
	"fmt"
	"math"
	"math/rand"

	"github.com/sarchlab/softcache/cache"
	"github.com/sarchlab/softcache/cl"
)

// Synthetic host-pointer identities for the three matrices and the two
// scalar dimensions. The cache and the device treat host pointers as opaque
// identities; the device resolves them through its host-region table.
const (
	ptrMatA cl.HostPtr = 0x1000
	ptrMatB cl.HostPtr = 0x2000
	ptrMatC cl.HostPtr = 0x3000
	ptrDimW cl.HostPtr = 0x4000
	ptrDimH cl.HostPtr = 0x5000
)

// runMatMul multiplies two n-by-n matrices on the software device
// `iterations` times, routing every call through the cache, and verifies
// the device result against a host-side reference multiply.
func runMatMul(driver *cl.SimDriver, c *cache.Comp, n, iterations int) error {
	ctx := driver.CreateContext()
	queue := driver.CreateCommandQueue(ctx)
	kernel := driver.CreateKernel("matrixMul", matMulKernel)

	rng := rand.New(rand.NewSource(42))

	a := make([]float32, n*n)
	b := make([]float32, n*n)
	result := make([]float32, n*n)

	for i := range a {
		a[i] = rng.Float32()
		b[i] = rng.Float32()
	}

	aBytes := floatsToBytes(a)
	bBytes := floatsToBytes(b)
	cBytes := make([]byte, 4*n*n)
	wBytes := make([]byte, 4)
	binary.LittleEndian.PutUint32(wBytes, uint32(n))

	driver.RegisterHostRegion(ptrMatA, aBytes)
	driver.RegisterHostRegion(ptrMatB, bBytes)
	driver.RegisterHostRegion(ptrMatC, cBytes)
	driver.RegisterHostRegion(ptrDimW, wBytes)
	driver.RegisterHostRegion(ptrDimH, wBytes)

	want := make([]float32, n*n)
	matrixMulHost(a, b, want, n)

	// The result buffer is created once; the cache owns it from first
	// insertion and keeps handing back the same handle.
	cBuf, status := c.CreateBuffer(ctx, cl.MemReadWrite, 4*n*n, ptrMatC)
	if status != cl.Success {
		return fmt.Errorf("creating result buffer failed: %s",
			cl.StatusName(status))
	}

	for iter := 0; iter < iterations; iter++ {
		status := runIteration(c, ctx, queue, kernel, &cBuf, n)
		if status != cl.Success {
			return fmt.Errorf("iteration %d failed: %s",
				iter, cl.StatusName(status))
		}

		// Under write-back the host copy of C is stale until flushed.
		if c.IsWriteBack() {
			if status := c.WriteBackBuffer(ptrMatC); status != cl.Success {
				return fmt.Errorf("write-back failed: %s",
					cl.StatusName(status))
			}
		}

		bytesToFloats(cBytes, result)
		if !compareMatrices(result, want) {
			return fmt.Errorf("iteration %d: device result diverges "+
				"from host reference", iter)
		}
	}

	return nil
}

func runIteration(
	c *cache.Comp,
	ctx cl.Context,
	queue cl.CommandQueue,
	kernel cl.Kernel,
	cBuf *cl.Mem,
	n int,
) cl.Status {
	byteSize := 4 * n * n

	// The returned handles are not kept: the kernel binds buffers by host
	// pointer, and the cache owns the handles from insertion on.
	_, status := c.CreateBuffer(
		ctx, cl.MemReadOnly|cl.MemCopyHostPtr, byteSize, ptrMatA)
	if status != cl.Success {
		return status
	}

	_, status = c.CreateBuffer(
		ctx, cl.MemReadOnly|cl.MemCopyHostPtr, byteSize, ptrMatB)
	if status != cl.Success {
		return status
	}

	if _, status = c.WriteBuffer(
		queue, cBuf, true, 0, byteSize, ptrMatC, nil); status != cl.Success {
		return status
	}

	for i, arg := range []cl.HostPtr{ptrMatA, ptrMatB, ptrMatC, ptrDimW, ptrDimH} {
		if status = c.SetKernelArg(kernel, i, 8, arg); status != cl.Success {
			return status
		}
	}

	if _, status = c.EnqueueNDRangeKernel(
		queue, kernel, []int{n, n}, nil, nil); status != cl.Success {
		return status
	}

	_, status = c.EnqueueReadBuffer(
		queue, *cBuf, true, 0, byteSize, ptrMatC, nil)

	return status
}

// matMulKernel is the software kernel. Arguments: A, B, C buffers, then the
// width and height scalars.
func matMulKernel(args [][]byte, globalWorkSize []int) {
	a := bytesAsFloats(args[0])
	b := bytesAsFloats(args[1])
	c := args[2]
	w := int(binary.LittleEndian.Uint32(args[3]))
	h := int(binary.LittleEndian.Uint32(args[4]))

	for i := 0; i < w; i++ {
		for j := 0; j < h; j++ {
			var sum float32
			for k := 0; k < w; k++ {
				sum += a[i*h+k] * b[k*h+j]
			}

			binary.LittleEndian.PutUint32(
				c[4*(i*h+j):], math.Float32bits(sum))
		}
	}
}

func matrixMulHost(a, b, c []float32, n int) {
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			var sum float32
			for k := 0; k < n; k++ {
				sum += a[i*n+k] * b[k*n+j]
			}

			c[i*n+j] = sum
		}
	}
}

func compareMatrices(got, want []float32) bool {
	for i := range got {
		if diff := float64(got[i] - want[i]); diff > 0.1 || diff < -0.1 {
			fmt.Printf("Error at index %d: %f != %f\n", i, got[i], want[i])
			return false
		}
	}

	return true
}

func floatsToBytes(f []float32) []byte {
	out := make([]byte, 4*len(f))
	for i, v := range f {
		binary.LittleEndian.PutUint32(out[4*i:], math.Float32bits(v))
	}

	return out
}

func bytesToFloats(b []byte, out []float32) {
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[4*i:]))
	}
}

func bytesAsFloats(b []byte) []float32 {
	out := make([]float32, len(b)/4)
	bytesToFloats(b, out)

	return out
}
