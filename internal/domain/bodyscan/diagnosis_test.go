package bodyscan_test

import (
	"errors"

	"github.com/bryanwahyu/vital360/internal/domain/bodyscan"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ParseDiagnosis", func() {
	DescribeTable("accepts well-formed results",
		func(raw string, healthy bool, sev bodyscan.Severity) {
			d, err := bodyscan.ParseDiagnosis(raw)
			Expect(err).NotTo(HaveOccurred())
			Expect(d.Healthy()).To(Equal(healthy))
			Expect(d.Severity).To(Equal(sev))
		},
		Entry("empty object", `{}`, true, bodyscan.Severity("")),
		Entry("issue with severity", `{"issue":"Fatty Liver","severity":"low","description":"d","remedy":"r"}`, false, bodyscan.SeverityLow),
		Entry("severity none", `{"issue":"Nothing","severity":"none"}`, true, bodyscan.SeverityNone),
		Entry("upper case severity", `{"issue":"X","severity":"HIGH"}`, false, bodyscan.SeverityHigh),
		Entry("fenced json", "```json\n{\"issue\":\"X\",\"severity\":\"medium\"}\n```", false, bodyscan.SeverityMedium),
		Entry("blank issue", `{"issue":"  ","severity":"high"}`, true, bodyscan.SeverityHigh),
		Entry("unknown fields ignored", `{"confidence":0.4}`, true, bodyscan.Severity("")),
	)

	DescribeTable("rejects malformed results",
		func(raw string) {
			_, err := bodyscan.ParseDiagnosis(raw)
			Expect(errors.Is(err, bodyscan.ErrMalformedDiagnosis)).To(BeTrue())
		},
		Entry("empty", ``),
		Entry("prose", `The liver looks fine.`),
		Entry("array", `[{"issue":"X"}]`),
		Entry("null", `null`),
		Entry("trailing object", `{}{}`),
		Entry("truncated", `{"issue":"X"`),
		Entry("issue without severity", `{"issue":"X"}`),
		Entry("unknown severity", `{"issue":"X","severity":"severe"}`),
		Entry("numeric severity", `{"issue":"X","severity":3}`),
	)

	It("scores severities", func() {
		Expect(bodyscan.SeverityScore(bodyscan.SeverityHigh)).To(Equal(3))
		Expect(bodyscan.SeverityScore(bodyscan.SeverityMedium)).To(Equal(2))
		Expect(bodyscan.SeverityScore(bodyscan.SeverityLow)).To(Equal(1))
		Expect(bodyscan.SeverityScore("critical")).To(Equal(0))
		Expect(bodyscan.SeverityScore(bodyscan.SeverityNone)).To(Equal(0))
	})

	It("wraps failures into a failed outcome", func() {
		d, err := bodyscan.ParseDiagnosis("nope")
		o := bodyscan.OutcomeOf(d, err)
		Expect(o.Failed()).To(BeTrue())
		Expect(o.Effective().Healthy()).To(BeTrue())
	})
})

var _ = Describe("ParseOrganID", func() {
	It("normalizes known ids", func() {
		id, err := bodyscan.ParseOrganID(" Liver ")
		Expect(err).NotTo(HaveOccurred())
		Expect(id).To(Equal(bodyscan.OrganLiver))
		Expect(id.Name()).To(Equal("Liver"))
	})

	It("rejects unknown ids", func() {
		_, err := bodyscan.ParseOrganID("appendix")
		Expect(errors.Is(err, bodyscan.ErrUnknownOrgan)).To(BeTrue())
	})
})
