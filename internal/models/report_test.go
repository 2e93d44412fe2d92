package models_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/ahmetcoskunkizilkaya/fraudwatch/internal/models"
)

var _ = Describe("Report", func() {
	DescribeTable("BaseName",
		func(in, out string) {
			Expect(models.BaseName(in)).To(Equal(out))
		},
		Entry("plain", "photo.jpg", "photo.jpg"),
		Entry("relative escape", "../../etc/passwd", "passwd"),
		Entry("absolute", "/var/tmp/a.png", "a.png"),
		Entry("windows path", `C:\Users\me\a.pdf`, "a.pdf"),
		Entry("dots only", "..", ""),
		Entry("slash only", "/", ""),
		Entry("empty", "", ""),
	)

	It("names evidence after its report", func() {
		Expect(models.EvidenceName("rid", "dir/shot.png")).To(Equal("rid_shot.png"))
	})

	It("finds attachments by stored name", func() {
		r := &models.Report{Files: []models.EvidenceFile{
			{OriginalName: "a.PDF", SavedName: "rid_a.PDF"},
			{OriginalName: "b.png", SavedName: "rid_b.png"},
		}}
		f, ok := r.FindFile("rid_a.PDF")
		Expect(ok).To(BeTrue())
		Expect(f.IsPDF()).To(BeTrue())

		f, ok = r.FindFile("rid_b.png")
		Expect(ok).To(BeTrue())
		Expect(f.IsPDF()).To(BeFalse())

		_, ok = r.FindFile("rid_c.png")
		Expect(ok).To(BeFalse())
	})

	It("knows the fixed fraud types", func() {
		Expect(models.IsFraudType("partTimeJob")).To(BeTrue())
		Expect(models.IsFraudType("PARTTIMEJOB")).To(BeFalse())
		Expect(models.IsFraudType("")).To(BeFalse())
	})
})
