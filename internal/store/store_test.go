package store_test

import (
	"context"
	"time"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/ahmetcoskunkizilkaya/fraudwatch/internal/models"
	"github.com/ahmetcoskunkizilkaya/fraudwatch/internal/store"
)

func newReport(createdAt time.Time) *models.Report {
	id := uuid.NewString()
	return &models.Report{
		ID:               id,
		ReporterName:     "Jane",
		ContactInfo:      "jane@example.com",
		FraudType:        "phishing",
		FraudTime:        "2024-05-01 10:00",
		FraudAmount:      "250",
		Description:      "fake bank sms with a login link",
		EmergencyContact: "John",
		EmergencyPhone:   "555-0100",
		AgreeTerms:       true,
		CreatedAt:        createdAt.UTC(),
		Files: []models.EvidenceFile{
			{OriginalName: "sms.png", SavedName: models.EvidenceName(id, "sms.png"), Size: 1024},
		},
	}
}

// storeBehaviour is shared by every backend; open returns a fresh, empty store.
func storeBehaviour(open func() store.Store) {
	var (
		st  store.Store
		ctx context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		st = open()
	})

	It("reads back what was written", func() {
		report := newReport(time.Now())
		Expect(st.Write(ctx, report)).To(Succeed())

		got, err := st.Read(ctx, report.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(got.ID).To(Equal(report.ID))
		Expect(got.ContactInfo).To(Equal("jane@example.com"))
		Expect(got.Description).To(Equal(report.Description))
		Expect(got.CreatedAt.Equal(report.CreatedAt)).To(BeTrue())
		Expect(got.Files).To(Equal(report.Files))
	})

	It("replaces the whole document on rewrite", func() {
		report := newReport(time.Now())
		Expect(st.Write(ctx, report)).To(Succeed())

		report.Description = "updated"
		report.Files = nil
		Expect(st.Write(ctx, report)).To(Succeed())

		got, err := st.Read(ctx, report.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(got.Description).To(Equal("updated"))
		Expect(got.Files).To(BeEmpty())
		Expect(got.Files).NotTo(BeNil())
	})

	It("returns ErrNotFound for an unknown id", func() {
		_, err := st.Read(ctx, uuid.NewString())
		Expect(err).To(MatchError(store.ErrNotFound))
	})

	It("returns ErrNotFound for an id that is not a uuid", func() {
		_, err := st.Read(ctx, "../../etc/passwd")
		Expect(err).To(MatchError(store.ErrNotFound))
	})

	It("refuses to write a report without a uuid id", func() {
		report := newReport(time.Now())
		report.ID = "not-a-uuid"
		Expect(st.Write(ctx, report)).NotTo(Succeed())
	})

	It("lists reports newest first", func() {
		base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
		older := newReport(base)
		newest := newReport(base.Add(2 * time.Hour))
		middle := newReport(base.Add(time.Hour))
		for _, r := range []*models.Report{older, newest, middle} {
			Expect(st.Write(ctx, r)).To(Succeed())
		}

		all, err := st.ReadAll(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(all).To(HaveLen(3))
		Expect(all[0].ID).To(Equal(newest.ID))
		Expect(all[1].ID).To(Equal(middle.ID))
		Expect(all[2].ID).To(Equal(older.ID))
	})

	It("lists nothing when empty", func() {
		all, err := st.ReadAll(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(all).To(BeEmpty())
	})

	It("is healthy once opened", func() {
		Expect(st.Ping(ctx)).To(Succeed())
	})
}
