package batch

import (
	"bytes"
	"encoding/base64"
	"errors"
	"strings"

	ginkgo "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// errReader always fails, simulating a broken upload stream
type errReader struct{}

func (errReader) Read([]byte) (int, error) {
	return 0, errors.New("read error")
}

var _ = ginkgo.Describe("Accumulator", func() {
	var acc *Accumulator

	ginkgo.BeforeEach(func() {
		acc = NewAccumulator()
	})

	ginkgo.When("a supported image is added", func() {
		var accepted bool

		ginkgo.BeforeEach(func() {
			accepted = acc.Add("receipt.jpg", "image/jpeg", strings.NewReader("jpeg bytes"))
		})

		ginkgo.It("accepts the file", func() {
			Expect(accepted).To(BeTrue())
			Expect(acc.Count()).To(Equal(1))
			Expect(acc.Rejected()).To(BeZero())
		})

		ginkgo.It("records name, type and size", func() {
			files := acc.Files()
			Expect(files).To(HaveLen(1))
			Expect(files[0].Name).To(Equal("receipt.jpg"))
			Expect(files[0].MimeType).To(Equal("image/jpeg"))
			Expect(files[0].SizeBytes).To(Equal(len("jpeg bytes")))
		})

		ginkgo.It("stores the payload base64-encoded", func() {
			data, err := base64.StdEncoding.DecodeString(acc.Files()[0].Payload)
			Expect(err).NotTo(HaveOccurred())
			Expect(data).To(Equal([]byte("jpeg bytes")))
		})
	})

	ginkgo.When("the content type is missing", func() {
		ginkgo.It("falls back to the filename extension", func() {
			Expect(acc.Add("scan.PDF", "", strings.NewReader("pdf bytes"))).To(BeTrue())
			Expect(acc.Files()[0].MimeType).To(Equal("application/pdf"))
		})

		ginkgo.It("recognizes HEIC extensions", func() {
			Expect(acc.Add("photo.heic", "application/octet-stream", strings.NewReader("heic bytes"))).To(BeTrue())
			Expect(acc.Files()[0].MimeType).To(Equal("image/heic"))
		})
	})

	ginkgo.When("an unsupported file is added", func() {
		var accepted bool

		ginkgo.BeforeEach(func() {
			accepted = acc.Add("notes.txt", "text/plain", strings.NewReader("not a receipt"))
		})

		ginkgo.It("rejects the file without failing", func() {
			Expect(accepted).To(BeFalse())
			Expect(acc.Count()).To(BeZero())
			Expect(acc.Rejected()).To(Equal(1))
		})
	})

	ginkgo.When("the same file is added twice", func() {
		ginkgo.BeforeEach(func() {
			acc.Add("receipt.jpg", "image/jpeg", strings.NewReader("same bytes"))
		})

		ginkgo.It("rejects the duplicate by name and size", func() {
			Expect(acc.Add("receipt.jpg", "image/jpeg", strings.NewReader("diff bytes"))).To(BeFalse())
			Expect(acc.Count()).To(Equal(1))
			Expect(acc.Rejected()).To(Equal(1))
		})

		ginkgo.It("accepts a same-named file of a different size", func() {
			Expect(acc.Add("receipt.jpg", "image/jpeg", strings.NewReader("different length bytes"))).To(BeTrue())
			Expect(acc.Count()).To(Equal(2))
		})

		ginkgo.It("accepts a different name with the same size", func() {
			Expect(acc.Add("receipt2.jpg", "image/jpeg", bytes.NewReader([]byte("same bytes")))).To(BeTrue())
			Expect(acc.Count()).To(Equal(2))
		})
	})

	ginkgo.When("a file fails to read", func() {
		ginkgo.It("rejects it and leaves the rest of the selection intact", func() {
			Expect(acc.Add("good1.jpg", "image/jpeg", strings.NewReader("one"))).To(BeTrue())
			Expect(acc.Add("broken.jpg", "image/jpeg", errReader{})).To(BeFalse())
			Expect(acc.Add("good2.jpg", "image/jpeg", strings.NewReader("two2"))).To(BeTrue())

			Expect(acc.Count()).To(Equal(2))
			Expect(acc.Rejected()).To(Equal(1))
			Expect(acc.Files()[0].Name).To(Equal("good1.jpg"))
			Expect(acc.Files()[1].Name).To(Equal("good2.jpg"))
		})
	})

	ginkgo.Describe("Files", func() {
		ginkgo.It("returns a copy the caller can mutate safely", func() {
			acc.Add("receipt.jpg", "image/jpeg", strings.NewReader("bytes"))
			files := acc.Files()
			files[0].Name = "mutated"
			Expect(acc.Files()[0].Name).To(Equal("receipt.jpg"))
		})
	})
})
