package sparse_test

import (
	"github.com/bsm/sparse"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Slice", func() {
	var subject *sparse.Memory

	BeforeEach(func() {
		subject = mem(blk(1, "ABCD"), blk(7, "xyz"))
	})

	Describe("Get", func() {
		It("should select a range", func() {
			sub, err := subject.Get(sparse.Range(2, 9))
			Expect(err).NotTo(HaveOccurred())
			Expect(sub.Blocks()).To(Equal([]sparse.Block{blk(2, "BCD"), blk(7, "xy")}))

			start, endex := sub.Span()
			Expect(start).To(Equal(int64(2)))
			Expect(endex).To(Equal(int64(9)))
		})

		It("should default omitted edges to the content span", func() {
			sub, err := subject.Get(sparse.Full())
			Expect(err).NotTo(HaveOccurred())
			Expect(sub.Equal(subject)).To(BeTrue())
		})

		It("should fill gaps from a pattern", func() {
			sub, err := subject.Get(sparse.Slice{Start: 1, Stop: 10, HasStart: true, HasStop: true, Pattern: []byte{'.'}})
			Expect(err).NotTo(HaveOccurred())
			Expect(sub.Blocks()).To(Equal([]sparse.Block{blk(1, "ABCD..xyz")}))
		})

		It("should decimate with a stride", func() {
			sub, err := subject.Get(sparse.Slice{Start: 1, Stop: 10, HasStart: true, HasStop: true, Step: 3})
			Expect(err).NotTo(HaveOccurred())
			// samples 1, 4, 7 -> A, D, x
			Expect(sub.Blocks()).To(Equal([]sparse.Block{blk(1, "ADx")}))
		})

		It("should keep sampled gaps empty", func() {
			sub, err := subject.Get(sparse.Slice{Start: 4, Stop: 10, HasStart: true, HasStop: true, Step: 2})
			Expect(err).NotTo(HaveOccurred())
			// samples 4, 6, 8 -> D, empty, y
			Expect(sub.Blocks()).To(Equal([]sparse.Block{blk(4, "D"), blk(6, "y")}))
			_, err = sub.ToBytes(sub.Span())
			Expect(err).To(MatchError(sparse.ErrNonContiguous))
		})

		It("should reject a pattern combined with a stride", func() {
			_, err := subject.Get(sparse.Slice{Step: 2, Pattern: []byte{'.'}})
			Expect(err).To(MatchError(`sparse: pattern not allowed with a stride`))
		})
	})

	Describe("Set", func() {
		It("should overwrite a matching range", func() {
			Expect(subject.Set(sparse.Range(2, 4), []byte("##"))).To(Succeed())
			Expect(subject.Blocks()).To(Equal([]sparse.Block{blk(1, "A##D"), blk(7, "xyz")}))
		})

		It("should shrink the store on shorter data", func() {
			Expect(subject.Set(sparse.Range(2, 8), []byte("#"))).To(Succeed())
			Expect(subject.Blocks()).To(Equal([]sparse.Block{blk(1, "A#yz")}))
		})

		It("should grow the store on longer data", func() {
			Expect(subject.Set(sparse.Range(2, 4), []byte("####"))).To(Succeed())
			Expect(subject.Blocks()).To(Equal([]sparse.Block{blk(1, "A####D"), blk(9, "xyz")}))
		})

		It("should poke strided addresses", func() {
			Expect(subject.Set(sparse.Slice{Start: 1, Stop: 10, HasStart: true, HasStop: true, Step: 3}, []byte("###"))).To(Succeed())
			Expect(subject.Blocks()).To(Equal([]sparse.Block{blk(1, "#BC#"), blk(7, "#yz")}))
		})

		It("should reject mismatched strided data", func() {
			err := subject.Set(sparse.Slice{Start: 1, Stop: 10, HasStart: true, HasStop: true, Step: 3}, []byte("##"))
			Expect(err).To(MatchError(`sparse: attempted to assign 2 values to 3 strided addresses`))
		})
	})

	Describe("Del", func() {
		It("should delete a range", func() {
			subject.Del(sparse.Range(2, 8))
			Expect(subject.Blocks()).To(Equal([]sparse.Block{blk(1, "Ayz")}))
		})

		It("should delete strided addresses from high to low", func() {
			subject.Del(sparse.Slice{Start: 1, Stop: 10, HasStart: true, HasStop: true, Step: 3})
			// deletes 7, 4, 1 -> drops A, D, x
			Expect(subject.Blocks()).To(Equal([]sparse.Block{blk(1, "BC"), blk(5, "yz")}))
		})

		It("should delete everything by default", func() {
			subject.Del(sparse.Full())
			Expect(subject.IsEmpty()).To(BeTrue())
		})
	})
})
