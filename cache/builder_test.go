package cache_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	gomock "go.uber.org/mock/gomock"

	"github.com/sarchlab/softcache/cache"
)

var _ = Describe("Builder", func() {
	var driver *MockDriver

	BeforeEach(func() {
		driver = NewMockDriver(gomock.NewController(GinkgoT()))
	})

	It("should size a direct-mapped cache to a suitable prime", func() {
		c := cache.MakeBuilder().
			WithDriver(driver).
			WithOrganisation(cache.DirectMapping).
			WithCacheSize(10).
			Build("Cache")

		Expect(c.NumSets()).To(Equal(11))
		Expect(c.NumLines()).To(Equal(11))
		Expect(c.LinesPerSet()).To(Equal(1))
	})

	It("should shape a set-associative cache from the requested set "+
		"count", func() {
		c := cache.MakeBuilder().
			WithDriver(driver).
			WithOrganisation(cache.SetAssociative).
			WithCacheSize(6).
			WithRequestedSets(3).
			WithReplacementPolicy(cache.FIFO).
			Build("Cache")

		Expect(c.NumSets()).To(Equal(3))
		Expect(c.LinesPerSet()).To(Equal(2))
	})

	It("should collapse one-way set-associative to direct-mapped "+
		"geometry", func() {
		setAssoc := cache.MakeBuilder().
			WithDriver(driver).
			WithOrganisation(cache.SetAssociative).
			WithCacheSize(11).
			WithRequestedSets(11).
			Build("Cache")

		direct := cache.MakeBuilder().
			WithDriver(driver).
			WithOrganisation(cache.DirectMapping).
			WithCacheSize(11).
			Build("Cache")

		Expect(setAssoc.NumSets()).To(Equal(direct.NumSets()))
		Expect(setAssoc.NumLines()).To(Equal(direct.NumLines()))
		Expect(setAssoc.LinesPerSet()).To(Equal(1))
	})

	It("should panic without a driver", func() {
		Expect(func() {
			cache.MakeBuilder().Build("Cache")
		}).To(Panic())
	})

	It("should panic on a non-positive cache size", func() {
		Expect(func() {
			cache.MakeBuilder().
				WithDriver(driver).
				WithCacheSize(0).
				Build("Cache")
		}).To(Panic())
	})

	It("should panic when set-associative lacks a set count", func() {
		Expect(func() {
			cache.MakeBuilder().
				WithDriver(driver).
				WithOrganisation(cache.SetAssociative).
				WithCacheSize(8).
				Build("Cache")
		}).To(Panic())
	})
})

var _ = Describe("Config parsing", func() {
	It("should decode organisations", func() {
		org, err := cache.ParseOrganisation("set_associative")
		Expect(err).ToNot(HaveOccurred())
		Expect(org).To(Equal(cache.SetAssociative))

		org, err = cache.ParseOrganisation("d")
		Expect(err).ToNot(HaveOccurred())
		Expect(org).To(Equal(cache.DirectMapping))

		_, err = cache.ParseOrganisation("ring")
		Expect(err).To(HaveOccurred())
	})

	It("should decode replacement policies", func() {
		policy, err := cache.ParseReplacementPolicy("smallest")
		Expect(err).ToNot(HaveOccurred())
		Expect(policy).To(Equal(cache.Smallest))

		_, err = cache.ParseReplacementPolicy("mru")
		Expect(err).To(HaveOccurred())
	})

	It("should decode write policies", func() {
		writeBack, err := cache.ParseWritePolicy("write_back")
		Expect(err).ToNot(HaveOccurred())
		Expect(writeBack).To(BeTrue())

		writeBack, err = cache.ParseWritePolicy("write_through")
		Expect(err).ToNot(HaveOccurred())
		Expect(writeBack).To(BeFalse())

		_, err = cache.ParseWritePolicy("write_around")
		Expect(err).To(HaveOccurred())
	})
})
