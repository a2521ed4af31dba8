package bodyscan_test

import (
	"errors"
	"sort"
	"time"

	"github.com/bryanwahyu/vital360/internal/domain/bodyscan"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var base = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func result(issue string, sev bodyscan.Severity) bodyscan.Outcome {
	return bodyscan.OutcomeOf(bodyscan.Diagnosis{
		Issue:       issue,
		Severity:    sev,
		Description: "desc",
		Remedy:      "remedy",
	}, nil)
}

var _ = Describe("Session", func() {
	var s *bodyscan.Session

	BeforeEach(func() {
		s = bodyscan.NewSession(bodyscan.DefaultHistoryBound)
	})

	Describe("View", func() {
		It("returns no issue and empty history for an organ never scanned", func() {
			v, err := s.View(bodyscan.OrganKidneys)
			Expect(err).NotTo(HaveOccurred())
			Expect(v.Issue).To(BeNil())
			Expect(v.History).To(BeEmpty())
			Expect(s.Scanned(bodyscan.OrganKidneys)).To(BeFalse())
		})

		It("rejects unknown organs", func() {
			_, err := s.View("spleen")
			Expect(errors.Is(err, bodyscan.ErrUnknownOrgan)).To(BeTrue())
		})
	})

	Describe("Apply", func() {
		It("records a critical initial entry for a high severity result", func() {
			entry, err := s.Apply(bodyscan.OrganHeart, result("Arrhythmia", bodyscan.SeverityHigh), base)
			Expect(err).NotTo(HaveOccurred())
			Expect(entry.Status).To(Equal(bodyscan.StatusCritical))
			Expect(entry.SeverityScore).To(Equal(3))
			Expect(entry.Trend).To(Equal(bodyscan.TrendInitial))
			Expect(entry.Timestamp).To(Equal("09:30:00"))

			v, _ := s.View(bodyscan.OrganHeart)
			Expect(v.Issue).NotTo(BeNil())
			Expect(v.Issue.Name).To(Equal("Arrhythmia"))
			Expect(s.Scanned(bodyscan.OrganHeart)).To(BeTrue())
		})

		It("marks a later lower severity as improving and replaces the issue", func() {
			_, _ = s.Apply(bodyscan.OrganHeart, result("Arrhythmia", bodyscan.SeverityHigh), base)
			entry, _ := s.Apply(bodyscan.OrganHeart, result("Mild Murmur", bodyscan.SeverityLow), base.Add(time.Second))

			Expect(entry.Trend).To(Equal(bodyscan.TrendImproving))
			Expect(entry.SeverityScore).To(Equal(1))
			Expect(entry.Status).To(Equal(bodyscan.StatusWarning))

			v, _ := s.View(bodyscan.OrganHeart)
			Expect(v.History).To(HaveLen(2))
			Expect(v.Issue.Name).To(Equal("Mild Murmur"))
			Expect(v.Issue.Severity).To(Equal(bodyscan.SeverityLow))
			Expect(s.Issues()).To(HaveLen(1))
		})

		DescribeTable("derives the trend from the previous newest entry",
			func(first, second bodyscan.Severity, want bodyscan.Trend) {
				_, _ = s.Apply(bodyscan.OrganLungs, result("Finding", first), base)
				entry, _ := s.Apply(bodyscan.OrganLungs, result("Finding", second), base.Add(time.Minute))
				Expect(entry.Trend).To(Equal(want))
			},
			Entry("lower is improving", bodyscan.SeverityMedium, bodyscan.SeverityLow, bodyscan.TrendImproving),
			Entry("higher is declining", bodyscan.SeverityLow, bodyscan.SeverityHigh, bodyscan.TrendDeclining),
			Entry("equal is stable", bodyscan.SeverityMedium, bodyscan.SeverityMedium, bodyscan.TrendStable),
			Entry("healthy after an issue is improving", bodyscan.SeverityLow, bodyscan.SeverityNone, bodyscan.TrendImproving),
		)

		It("never keeps more entries than the bound", func() {
			bound := s.Bound()
			for i := 0; i < bound+3; i++ {
				_, err := s.Apply(bodyscan.OrganLiver, result("Fatty Liver", bodyscan.SeverityLow), base.Add(time.Duration(i)*time.Second))
				Expect(err).NotTo(HaveOccurred())
			}
			v, _ := s.View(bodyscan.OrganLiver)
			Expect(v.History).To(HaveLen(bound))
			Expect(v.History[0].RecordedAt).To(Equal(base.Add(time.Duration(bound+2) * time.Second)))
		})

		It("records the fatty liver scenario", func() {
			entry, _ := s.Apply(bodyscan.OrganLiver, result("Fatty Liver", bodyscan.SeverityLow), base)
			Expect(entry.Status).To(Equal(bodyscan.StatusWarning))
			Expect(entry.IssueName).To(Equal("Fatty Liver"))
			Expect(entry.SeverityScore).To(Equal(1))
			Expect(entry.Trend).To(Equal(bodyscan.TrendInitial))

			v, _ := s.View(bodyscan.OrganLiver)
			Expect(v.Issue).NotTo(BeNil())
			Expect(v.Issue.Remedy).To(Equal("remedy"))
		})

		It("records an empty result as optimal with no issue", func() {
			d, err := bodyscan.ParseDiagnosis("{}")
			Expect(err).NotTo(HaveOccurred())
			entry, _ := s.Apply(bodyscan.OrganHeart, bodyscan.OutcomeOf(d, nil), base)
			Expect(entry.Status).To(Equal(bodyscan.StatusOptimal))
			Expect(entry.IssueName).To(BeEmpty())

			v, _ := s.View(bodyscan.OrganHeart)
			Expect(v.Issue).To(BeNil())
		})

		It("clears the live issue when the organ becomes healthy", func() {
			_, _ = s.Apply(bodyscan.OrganStomach, result("Gastritis", bodyscan.SeverityMedium), base)
			_, _ = s.Apply(bodyscan.OrganStomach, result("", ""), base.Add(time.Second))
			v, _ := s.View(bodyscan.OrganStomach)
			Expect(v.Issue).To(BeNil())
			Expect(v.History[0].Status).To(Equal(bodyscan.StatusOptimal))
		})

		It("records a failed outcome as one benign optimal entry", func() {
			_, _ = s.Apply(bodyscan.OrganKidneys, result("Stones", bodyscan.SeverityHigh), base)
			entry, err := s.Apply(bodyscan.OrganKidneys, bodyscan.Failure(errors.New("boom")), base.Add(time.Second))
			Expect(err).NotTo(HaveOccurred())
			Expect(entry.Status).To(Equal(bodyscan.StatusOptimal))
			Expect(entry.SeverityScore).To(Equal(0))
			Expect(entry.Trend).To(Equal(bodyscan.TrendImproving))

			v, _ := s.View(bodyscan.OrganKidneys)
			Expect(v.History).To(HaveLen(2))
			Expect(v.Issue).To(BeNil())
		})

		It("keeps the issue map consistent with the newest status", func() {
			_, _ = s.Apply(bodyscan.OrganHeart, result("A", bodyscan.SeverityHigh), base)
			_, _ = s.Apply(bodyscan.OrganLungs, result("", bodyscan.SeverityNone), base)
			_, _ = s.Apply(bodyscan.OrganLiver, result("B", bodyscan.SeverityNone), base)

			for _, st := range s.Organs() {
				v, _ := s.View(st.ID)
				Expect(st.Scanned).To(Equal(len(v.History) > 0))
				if len(v.History) > 0 {
					Expect(v.Issue != nil).To(Equal(v.History[0].Status != bodyscan.StatusOptimal))
				}
			}
		})
	})

	Describe("in-flight slot", func() {
		It("rejects a second diagnosis until the first finishes", func() {
			Expect(s.Begin(bodyscan.OrganHeart)).To(Succeed())
			err := s.Begin(bodyscan.OrganLiver)
			Expect(errors.Is(err, bodyscan.ErrDiagnosisInFlight)).To(BeTrue())

			organ, busy := s.Analyzing()
			Expect(busy).To(BeTrue())
			Expect(organ).To(Equal(bodyscan.OrganHeart))

			s.Finish(bodyscan.OrganLiver)
			_, busy = s.Analyzing()
			Expect(busy).To(BeTrue())

			s.Finish(bodyscan.OrganHeart)
			_, busy = s.Analyzing()
			Expect(busy).To(BeFalse())
			Expect(s.Begin(bodyscan.OrganLiver)).To(Succeed())
		})

		It("focuses the organ being diagnosed", func() {
			Expect(s.Begin(bodyscan.OrganLungs)).To(Succeed())
			focused, ok := s.Focused()
			Expect(ok).To(BeTrue())
			Expect(focused).To(Equal(bodyscan.OrganLungs))
		})
	})

	Describe("Select", func() {
		It("focuses without recording anything", func() {
			Expect(s.Select(bodyscan.OrganLiver)).To(Succeed())
			focused, _ := s.Focused()
			Expect(focused).To(Equal(bodyscan.OrganLiver))
			Expect(s.Timeline()).To(BeEmpty())
			Expect(s.Scanned(bodyscan.OrganLiver)).To(BeFalse())
		})
	})

	Describe("Timeline", func() {
		It("merges all histories sorted by timestamp descending", func() {
			_, _ = s.Apply(bodyscan.OrganHeart, result("A", bodyscan.SeverityLow), base)
			_, _ = s.Apply(bodyscan.OrganLiver, result("B", bodyscan.SeverityMedium), base.Add(2*time.Second))
			_, _ = s.Apply(bodyscan.OrganHeart, result("", ""), base.Add(3*time.Second))
			_, _ = s.Apply(bodyscan.OrganLungs, result("C", bodyscan.SeverityHigh), base.Add(time.Second))

			tl := s.Timeline()
			total := 0
			for _, o := range bodyscan.Organs() {
				v, _ := s.View(o.ID)
				total += len(v.History)
			}
			Expect(tl).To(HaveLen(total))
			Expect(sort.SliceIsSorted(tl, func(i, j int) bool { return tl[i].Timestamp > tl[j].Timestamp })).To(BeTrue())
			Expect(tl[0].Organ).To(Equal(bodyscan.OrganHeart))
			Expect(tl[0].Timestamp).To(Equal("09:30:03"))
			Expect(tl[len(tl)-1].Timestamp).To(Equal("09:30:00"))
		})
	})

	Describe("Layer", func() {
		It("defaults to circulatory and accepts known layers", func() {
			Expect(s.Layer()).To(Equal(bodyscan.LayerCirculatory))
			Expect(s.SetLayer("Nervous")).To(Succeed())
			Expect(s.Layer()).To(Equal(bodyscan.LayerNervous))
			Expect(errors.Is(s.SetLayer("lymphatic"), bodyscan.ErrUnknownLayer)).To(BeTrue())
		})
	})
})
