package sparse_test

import (
	"bytes"

	"github.com/bsm/sparse"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Writer", func() {
	var subject *sparse.Writer
	var buf *bytes.Buffer

	BeforeEach(func() {
		buf = new(bytes.Buffer)
		subject = sparse.NewWriter(buf, nil)
	})

	It("should append runs", func() {
		Expect(subject.Append(3, []byte("Hello"))).To(Succeed())
		Expect(subject.Append(10, []byte("World"))).To(Succeed())
		Expect(subject.Close()).To(Succeed())
		Expect(buf.Len()).To(BeNumerically(">", 16))
	})

	It("should reject out-of-order appends", func() {
		Expect(subject.Append(3, []byte("Hello"))).To(Succeed())
		Expect(subject.Append(8, []byte("x"))).To(MatchError(`sparse: attempted an out-of-order append, 8 must be > 8`))
		Expect(subject.Append(5, []byte("x"))).To(MatchError(`sparse: attempted an out-of-order append, 5 must be > 8`))
	})

	It("should allow negative first addresses", func() {
		Expect(subject.Append(-20, []byte("below"))).To(Succeed())
		Expect(subject.Append(4, []byte("above"))).To(Succeed())
		Expect(subject.Close()).To(Succeed())
	})

	It("should skip empty runs", func() {
		Expect(subject.Append(3, nil)).To(Succeed())
		Expect(subject.Append(3, []byte("Hello"))).To(Succeed())
		Expect(subject.Close()).To(Succeed())
	})

	It("should append stores", func() {
		Expect(subject.AppendMemory(mem(blk(3, "Hello"), blk(10, "World")))).To(Succeed())
		Expect(subject.Close()).To(Succeed())
	})

	It("should fail when closed", func() {
		Expect(subject.Close()).To(Succeed())
		Expect(subject.Close()).To(MatchError(`sparse: is closed`))
		Expect(subject.Append(3, []byte("x"))).To(MatchError(`sparse: is closed`))
	})

	It("should cut blocks on size", func() {
		subject = sparse.NewWriter(buf, &sparse.DumpOptions{BlockSize: 64, Compression: sparse.NoCompression})

		m := sparse.New()
		for i := int64(0); i < 16; i++ {
			m.Write(i*24, bytes.Repeat([]byte{byte('a' + i)}, 16))
		}
		Expect(subject.AppendMemory(m)).To(Succeed())
		Expect(subject.Close()).To(Succeed())

		r, err := sparse.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
		Expect(err).NotTo(HaveOccurred())
		Expect(r.NumBlocks()).To(BeNumerically(">", 1))
	})
})
