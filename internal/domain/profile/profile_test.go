package profile

import (
	"errors"
	"strings"
	"testing"

	. "github.com/onsi/gomega"
)

func TestNormalizeFillsDefaults(t *testing.T) {
	g := NewWithT(t)
	p := Profile{Name: "  Alex Jensen\x00 ", Age: " 34 "}.Normalize()
	g.Expect(p.Name).To(Equal("Alex Jensen"))
	g.Expect(p.Age).To(Equal("34"))
	g.Expect(p.Gender).To(Equal(DefaultGender))
	g.Expect(p.Goal).To(Equal(DefaultGoal))
	g.Expect(p.Validate()).To(Succeed())
}

func TestValidate(t *testing.T) {
	valid := Profile{Name: "Alex", Age: "34", Gender: "Female", Goal: "Mental Focus"}
	tests := []struct {
		name   string
		mutate func(p *Profile)
		ok     bool
	}{
		{"valid", func(*Profile) {}, true},
		{"missing name", func(p *Profile) { p.Name = "" }, false},
		{"long name", func(p *Profile) { p.Name = strings.Repeat("x", 65) }, false},
		{"age not a number", func(p *Profile) { p.Age = "old" }, false},
		{"age zero", func(p *Profile) { p.Age = "0" }, false},
		{"unknown gender", func(p *Profile) { p.Gender = "Robot" }, false},
		{"unknown goal", func(p *Profile) { p.Goal = "Fame" }, false},
		{"other gender", func(p *Profile) { p.Gender = "Other" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewWithT(t)
			p := valid
			tt.mutate(&p)
			err := p.Validate()
			if tt.ok {
				g.Expect(err).NotTo(HaveOccurred())
			} else {
				g.Expect(errors.Is(err, ErrInvalidProfile)).To(BeTrue())
			}
		})
	}
}
