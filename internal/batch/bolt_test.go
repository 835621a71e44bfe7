package batch

import (
	"path/filepath"
	"time"

	ginkgo "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = ginkgo.Describe("BoltStore", func() {
	var store *BoltStore

	ginkgo.BeforeEach(func() {
		var err error
		store, err = NewBoltStore(filepath.Join(ginkgo.GinkgoT().TempDir(), "test.db"))
		Expect(err).NotTo(HaveOccurred())
	})

	ginkgo.AfterEach(func() {
		store.Close()
	})

	ginkgo.It("round-trips a batch", func() {
		b := &Batch{
			ID:        "batch-1",
			CreatedAt: time.Date(2025, 6, 1, 19, 0, 0, 0, time.UTC),
			Simulated: true,
			Files:     []NormalizedFile{testFile("a.jpg")},
			Results: []RecognitionResult{{
				CustomerName: "Jane",
				Amount:       "$25.50",
				Tip:          "$5.00",
				Total:        "$30.50",
			}},
		}
		Expect(store.SaveBatch(b)).To(Succeed())

		loaded, err := store.GetBatch("batch-1")
		Expect(err).NotTo(HaveOccurred())
		Expect(loaded.ID).To(Equal("batch-1"))
		Expect(loaded.Simulated).To(BeTrue())
		Expect(loaded.Files).To(HaveLen(1))
		Expect(loaded.Results[0].Total).To(Equal("$30.50"))
	})

	ginkgo.It("returns an error for an unknown batch", func() {
		_, err := store.GetBatch("missing")
		Expect(err).To(HaveOccurred())
	})

	ginkgo.It("lists batches newest first", func() {
		base := time.Date(2025, 6, 1, 19, 0, 0, 0, time.UTC)
		Expect(store.SaveBatch(&Batch{ID: "old", CreatedAt: base})).To(Succeed())
		Expect(store.SaveBatch(&Batch{ID: "new", CreatedAt: base.Add(time.Hour)})).To(Succeed())
		Expect(store.SaveBatch(&Batch{ID: "mid", CreatedAt: base.Add(time.Minute)})).To(Succeed())

		batches, err := store.ListBatches()
		Expect(err).NotTo(HaveOccurred())
		Expect(batches).To(HaveLen(3))
		Expect(batches[0].ID).To(Equal("new"))
		Expect(batches[1].ID).To(Equal("mid"))
		Expect(batches[2].ID).To(Equal("old"))
	})

	ginkgo.It("overwrites a batch saved twice", func() {
		b := &Batch{ID: "batch-1", CreatedAt: time.Now()}
		Expect(store.SaveBatch(b)).To(Succeed())
		b.Simulated = true
		Expect(store.SaveBatch(b)).To(Succeed())

		loaded, err := store.GetBatch("batch-1")
		Expect(err).NotTo(HaveOccurred())
		Expect(loaded.Simulated).To(BeTrue())
	})
})
