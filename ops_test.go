package sparse_test

import (
	"github.com/bsm/sparse"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Memory operations", func() {
	It("should delete, shifting content left", func() {
		m := mem(blk(1, "ABCD"), blk(6, "$"), blk(8, "xyz"))
		m.Delete(4, 9)
		Expect(m.Blocks()).To(Equal([]sparse.Block{blk(1, "ABCyz")}))
		Expect(m.Validate()).To(Succeed())
	})

	It("should clear, leaving a gap", func() {
		m := mem(blk(5, "ABC"), blk(9, "xyz"))
		m.Clear(6, 10)
		Expect(m.Blocks()).To(Equal([]sparse.Block{blk(5, "A"), blk(10, "yz")}))
		Expect(m.Validate()).To(Succeed())
	})

	It("should fill", func() {
		m := mem(blk(1, "ABC"), blk(6, "xyz"))
		Expect(m.Fill(m.Start(), m.Endex(), []byte("123"))).To(Succeed())
		Expect(m.Blocks()).To(Equal([]sparse.Block{blk(1, "12312312")}))

		Expect(m.Fill(1, 9, nil)).To(MatchError(ContainSubstring("empty pattern")))
	})

	It("should anchor the fill pattern before bound clamping", func() {
		m := mem(blk(4, "ABCD"))
		m.SetBoundStart(4)
		Expect(m.Fill(2, 8, []byte("123"))).To(Succeed())
		Expect(m.Blocks()).To(Equal([]sparse.Block{blk(4, "3123")}))
	})

	It("should flood gaps only", func() {
		m := mem(blk(1, "ABC"), blk(6, "xyz"))
		Expect(m.Flood(m.Start(), m.Endex(), []byte("123"))).To(Succeed())
		Expect(m.Blocks()).To(Equal([]sparse.Block{blk(1, "ABC12xyz")}))
	})

	It("should reserve", func() {
		m := mem(blk(3, "ABC"), blk(7, "xyz"))
		m.Reserve(4, 2)
		Expect(m.Blocks()).To(Equal([]sparse.Block{blk(3, "A"), blk(6, "BC"), blk(9, "xyz")}))
		Expect(m.Validate()).To(Succeed())
	})

	It("should peek and poke", func() {
		m := sparse.New()
		_, ok := m.Peek(0)
		Expect(ok).To(BeFalse())

		m.Poke(0, '$')
		v, ok := m.Peek(0)
		Expect(ok).To(BeTrue())
		Expect(v).To(Equal(byte('$')))

		m.PokeNone(0)
		_, ok = m.Peek(0)
		Expect(ok).To(BeFalse())
		Expect(m.IsEmpty()).To(BeTrue())
	})

	It("should merge pokes at block boundaries", func() {
		m := mem(blk(1, "AB"), blk(4, "xy"))
		m.Poke(3, '$')
		Expect(m.Blocks()).To(Equal([]sparse.Block{blk(1, "AB$xy")}))
		Expect(m.Validate()).To(Succeed())
	})

	It("should write", func() {
		m := mem(blk(1, "ABC"), blk(6, "xyz"))
		m.Write(2, []byte("1234"))
		Expect(m.Blocks()).To(Equal([]sparse.Block{blk(1, "A1234"), blk(6, "xyz")}))
		Expect(m.Validate()).To(Succeed())

		m.Write(0, []byte("z"))
		Expect(m.Blocks()).To(Equal([]sparse.Block{blk(0, "zA1234"), blk(6, "xyz")}))
	})

	It("should write sparse sources", func() {
		src := mem(blk(1, "12"), blk(5, "67"))
		m := mem(blk(0, "ABCDEFGH"))
		m.WriteMemory(0, src, false)
		Expect(m.Blocks()).To(Equal([]sparse.Block{blk(0, "A12DE67H")}))

		// with clear, the gaps of the source span are cleared too
		m = mem(blk(0, "ABCDEFGH"))
		m.WriteMemory(0, src, true)
		Expect(m.Blocks()).To(Equal([]sparse.Block{blk(0, "A12"), blk(5, "67H")}))

		// destination under the source's gaps is preserved by default,
		// cleared with clear
		m = mem(blk(0, "ABCDEFGH"))
		gappy := mem(blk(2, "xx"))
		gappy.SetBoundStart(1)
		gappy.SetBoundEndex(7)
		m.WriteMemory(0, gappy, false)
		Expect(m.Blocks()).To(Equal([]sparse.Block{blk(0, "ABxxEFGH")}))

		m = mem(blk(0, "ABCDEFGH"))
		m.WriteMemory(0, gappy, true)
		Expect(m.Blocks()).To(Equal([]sparse.Block{blk(0, "A"), blk(2, "xx"), blk(7, "H")}))
		Expect(m.Validate()).To(Succeed())
	})

	It("should write at an offset", func() {
		src := mem(blk(1, "12"))
		m := sparse.New()
		m.WriteMemory(10, src, false)
		Expect(m.Blocks()).To(Equal([]sparse.Block{blk(11, "12")}))
	})

	It("should insert", func() {
		m := mem(blk(1, "ABC"), blk(6, "xyz"))
		m.Insert(2, []byte("$$"))
		Expect(m.Blocks()).To(Equal([]sparse.Block{blk(1, "A$$BC"), blk(8, "xyz")}))
		Expect(m.Validate()).To(Succeed())
	})

	It("should crop", func() {
		m := mem(blk(1, "ABCD"), blk(7, "xyz"))
		m.Crop(3, 8)
		Expect(m.Blocks()).To(Equal([]sparse.Block{blk(3, "CD"), blk(7, "x")}))

		// idempotent
		m.Crop(3, 8)
		Expect(m.Blocks()).To(Equal([]sparse.Block{blk(3, "CD"), blk(7, "x")}))
	})

	It("should shift", func() {
		m := mem(blk(1, "ABC"), blk(6, "xyz"))
		m.Shift(5)
		Expect(m.Blocks()).To(Equal([]sparse.Block{blk(6, "ABC"), blk(11, "xyz")}))
		m.Shift(-5)
		Expect(m.Blocks()).To(Equal([]sparse.Block{blk(1, "ABC"), blk(6, "xyz")}))
	})

	It("should extract", func() {
		m := mem(blk(1, "ABCD"), blk(7, "xyz"))
		x := m.Extract(2, 8, nil, 1, true)
		Expect(x.Blocks()).To(Equal([]sparse.Block{blk(2, "BCD"), blk(7, "x")}))
		Expect(x.Start()).To(Equal(int64(2)))
		Expect(x.Endex()).To(Equal(int64(8)))

		// the source is untouched
		Expect(m.Blocks()).To(Equal([]sparse.Block{blk(1, "ABCD"), blk(7, "xyz")}))
	})

	It("should extract with a pattern", func() {
		m := mem(blk(1, "ABCD"), blk(7, "xyz"))
		x := m.Extract(2, 9, []byte("."), 1, false)
		Expect(x.Blocks()).To(Equal([]sparse.Block{blk(2, "BCD..xy")}))
	})

	It("should extract decimated", func() {
		m := mem(blk(0, "ABCDEF"))
		x := m.Extract(0, 6, nil, 2, true)
		Expect(x.Blocks()).To(Equal([]sparse.Block{blk(0, "ACE")}))
		Expect(x.Endex()).To(Equal(int64(3)))

		// a gap wherever the sampled value is empty
		m = mem(blk(0, "AB"), blk(4, "EF"))
		x = m.Extract(0, 6, nil, 2, true)
		Expect(x.Blocks()).To(Equal([]sparse.Block{blk(0, "A"), blk(2, "E")}))
	})

	It("should round-trip extract and write", func() {
		m := mem(blk(1, "ABCD"), blk(7, "xyz"), blk(12, "#"))
		for x := int64(0); x <= 13; x++ {
			for y := x; y <= 13; y++ {
				c := m.Copy()
				c.Clear(x, y)
				c.WriteMemory(0, m.Extract(x, y, nil, 1, true), false)
				Expect(c.Equal(m)).To(BeTrue(), "for [%d,%d)", x, y)
			}
		}
	})

	It("should cut", func() {
		m := mem(blk(1, "ABCD"), blk(7, "xyz"))
		x := m.Cut(2, 8, true)
		Expect(x.Blocks()).To(Equal([]sparse.Block{blk(2, "BCD"), blk(7, "x")}))
		Expect(m.Blocks()).To(Equal([]sparse.Block{blk(1, "A"), blk(8, "yz")}))
		Expect(m.Validate()).To(Succeed())
	})

	It("should align", func() {
		m := mem(blk(3, "ABC"), blk(13, "xy"))
		Expect(m.Align(4, 0, 16, []byte("."))).To(Succeed())
		Expect(m.Blocks()).To(Equal([]sparse.Block{blk(0, "...ABC.."), blk(12, ".xy.")}))
		Expect(m.Validate()).To(Succeed())

		// no-op when modulo is 1
		c := m.Copy()
		Expect(m.Align(1, 0, 16, []byte("."))).To(Succeed())
		Expect(m.Equal(c)).To(BeTrue())

		Expect(m.Align(0, 0, 16, []byte("."))).To(MatchError(ContainSubstring("align modulo")))
	})

	Describe("search", func() {
		var subject *sparse.Memory

		BeforeEach(func() {
			subject = mem(blk(1, "ABCABC"), blk(9, "ABC"))
		})

		It("should find forwards and backwards", func() {
			Expect(subject.Find([]byte("BC"), 1, 12)).To(Equal(int64(2)))
			Expect(subject.RFind([]byte("BC"), 1, 12)).To(Equal(int64(10)))
			Expect(subject.Find([]byte("BC"), 3, 12)).To(Equal(int64(5)))
			Expect(subject.Find([]byte("zz"), 1, 12)).To(Equal(int64(-1)))
		})

		It("should never match across gaps", func() {
			Expect(subject.Find([]byte("CA"), 5, 11)).To(Equal(int64(-1)))
			Expect(subject.Find([]byte("CABC"), 1, 12)).To(Equal(int64(3)))
		})

		It("should index", func() {
			Expect(subject.Index([]byte("ABC"), 1, 12)).To(Equal(int64(1)))
			_, err := subject.Index([]byte("zz"), 1, 12)
			Expect(err).To(MatchError(sparse.ErrNotFound))
			_, err = subject.RIndex([]byte("zz"), 1, 12)
			Expect(err).To(MatchError(sparse.ErrNotFound))
		})

		It("should count", func() {
			Expect(subject.Count([]byte("ABC"), 1, 12)).To(Equal(int64(3)))
			Expect(subject.Count([]byte("A"), 2, 12)).To(Equal(int64(2)))
		})
	})

	Describe("spans", func() {
		var subject *sparse.Memory

		BeforeEach(func() {
			subject = mem(blk(2, "AAAB"), blk(8, "xy"))
		})

		It("should report equal spans", func() {
			sp, v, ok := subject.EqualSpan(3)
			Expect(ok).To(BeTrue())
			Expect(v).To(Equal(byte('A')))
			Expect(sp).To(Equal(sparse.Span{Start: 2, Endex: 5}))

			sp, _, ok = subject.EqualSpan(5)
			Expect(ok).To(BeTrue())
			Expect(sp).To(Equal(sparse.Span{Start: 5, Endex: 6}))
		})

		It("should report gap spans", func() {
			sp, _, ok := subject.EqualSpan(7)
			Expect(ok).To(BeFalse())
			Expect(sp).To(Equal(sparse.Span{Start: 6, Endex: 8}))

			sp, _, ok = subject.EqualSpan(0)
			Expect(ok).To(BeFalse())
			Expect(sp).To(Equal(sparse.Span{Endex: 2, OpenStart: true}))

			sp, _, ok = subject.EqualSpan(100)
			Expect(ok).To(BeFalse())
			Expect(sp).To(Equal(sparse.Span{Start: 10, OpenEndex: true}))
		})

		It("should report block spans", func() {
			sp, v, ok := subject.BlockSpan(3)
			Expect(ok).To(BeTrue())
			Expect(v).To(Equal(byte('A')))
			Expect(sp).To(Equal(sparse.Span{Start: 2, Endex: 6}))

			sp, _, ok = subject.BlockSpan(6)
			Expect(ok).To(BeFalse())
			Expect(sp).To(Equal(sparse.Span{Start: 6, Endex: 8}))
		})
	})

	Describe("container conveniences", func() {
		It("should append and extend", func() {
			m := mem(blk(1, "AB"))
			m.Append('C')
			Expect(m.Blocks()).To(Equal([]sparse.Block{blk(1, "ABC")}))

			Expect(m.Extend([]byte("xy"), 2)).To(Succeed())
			Expect(m.Blocks()).To(Equal([]sparse.Block{blk(1, "ABC"), blk(6, "xy")}))

			Expect(m.Extend([]byte("z"), -1)).To(MatchError(ContainSubstring("negative extension")))
		})

		It("should pop", func() {
			m := mem(blk(1, "AB"), blk(4, "xy"))
			v, err := m.Pop()
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(Equal(byte('y')))
			Expect(m.Blocks()).To(Equal([]sparse.Block{blk(1, "AB"), blk(4, "x")}))

			_, err = sparse.New().Pop()
			Expect(err).To(MatchError(sparse.ErrEmpty))
		})

		It("should pop at an address", func() {
			m := mem(blk(1, "AB"), blk(4, "xy"))
			v, ok := m.PopAt(1)
			Expect(ok).To(BeTrue())
			Expect(v).To(Equal(byte('A')))
			Expect(m.Blocks()).To(Equal([]sparse.Block{blk(1, "B"), blk(3, "xy")}))

			_, ok = m.PopAt(2)
			Expect(ok).To(BeFalse())
			Expect(m.Blocks()).To(Equal([]sparse.Block{blk(1, "Bxy")}))
			Expect(m.Validate()).To(Succeed())
		})

		It("should pop items", func() {
			m := mem(blk(1, "AB"))
			addr, v, err := m.PopItem()
			Expect(err).NotTo(HaveOccurred())
			Expect(addr).To(Equal(int64(2)))
			Expect(v).To(Equal(byte('B')))

			_, _, err = sparse.New().PopItem()
			Expect(err).To(MatchError(sparse.ErrEmpty))
		})

		It("should remove", func() {
			m := mem(blk(1, "ABCD"))
			Expect(m.Remove([]byte("BC"))).To(Succeed())
			Expect(m.Blocks()).To(Equal([]sparse.Block{blk(1, "AD")}))

			Expect(m.Remove([]byte("BC"))).To(MatchError(sparse.ErrNotFound))
		})

		It("should set defaults", func() {
			m := mem(blk(1, "A"))
			Expect(m.SetDefault(1, 'z')).To(Equal(byte('A')))
			Expect(m.SetDefault(3, 'z')).To(Equal(byte('z')))
			v, ok := m.Peek(3)
			Expect(ok).To(BeTrue())
			Expect(v).To(Equal(byte('z')))
		})
	})
})
