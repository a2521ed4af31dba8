package panels

import (
	"errors"
	"testing"
	"time"

	. "github.com/onsi/gomega"
)

func TestBaselineSummaryFallsBack(t *testing.T) {
	g := NewWithT(t)
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	s := BaselineSummary("", at)
	g.Expect(s.Fallback).To(BeTrue())
	g.Expect(s.Summary).To(Equal(FallbackSummary))
	g.Expect(s.BodyScore).To(Equal(88))

	s = BaselineSummary("Vitals nominal at 72 BPM.", at)
	g.Expect(s.Fallback).To(BeFalse())
	g.Expect(s.CapturedAt).To(Equal(at))
}

func TestDashboardReadsLatestScan(t *testing.T) {
	g := NewWithT(t)

	d := NewDashboard(nil)
	g.Expect(d.Metrics[0].Value).To(Equal(72))
	g.Expect(d.Metrics[1].Value).To(Equal("98%"))
	g.Expect(d.Trends).To(HaveLen(6))

	scan := BaselineSummary("ok", time.Now())
	d = NewDashboard(&scan)
	g.Expect(d.Metrics[1].Value).To(Equal("Optimal"))
	g.Expect(d.Scan).To(Equal(&scan))
}

func TestPersonalityFallback(t *testing.T) {
	g := NewWithT(t)
	p := NewPersonality("")
	g.Expect(p.InsightFallback).To(BeTrue())
	g.Expect(p.Insight).To(Equal(FallbackInsight))
	g.Expect(NewPersonality("Peak focus today.").InsightFallback).To(BeFalse())
}

func TestChecklistToggle(t *testing.T) {
	g := NewWithT(t)
	c := NewChecklist()

	done, total := c.Progress()
	g.Expect(done).To(Equal(2))
	g.Expect(total).To(Equal(5))

	task, err := c.Toggle(2)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(task.Completed).To(BeTrue())

	task, _ = c.Toggle(2)
	g.Expect(task.Completed).To(BeFalse())

	_, err = c.Toggle(42)
	g.Expect(errors.Is(err, ErrUnknownTask)).To(BeTrue())
}
