package store_test

import (
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Bogdan-Zinovij/pzks/store"
)

var _ = Describe("Store", func() {
	var s *store.Store

	BeforeEach(func() {
		s = store.MakeBuilder().
			WithConstants([]store.Entry{
				{TaskID: 1, Value: "a"},
				{TaskID: 2, Value: "b"},
			}).
			Build()
	})

	It("should start at clock 1 with a free port", func() {
		Expect(s.Clock()).To(Equal(1))
		Expect(s.IsAvailable()).To(BeTrue())
		Expect(s.Has(1)).To(BeTrue())
		Expect(s.Has(3)).To(BeFalse())
	})

	Context("when writing", func() {
		It("should accept one write per clock", func() {
			Expect(s.Write(3, "123")).To(BeTrue())
			Expect(s.Write(4, "123")).To(BeFalse())

			Expect(s.Has(3)).To(BeTrue())
			Expect(s.Has(4)).To(BeFalse())
			Expect(s.Operations()).To(Equal([]store.Operation{
				{Clock: 1, Kind: store.Write, TaskID: 3},
			}))
		})

		It("should accept the retried write on the next clock", func() {
			Expect(s.Write(3, "123")).To(BeTrue())
			Expect(s.Write(4, "123")).To(BeFalse())

			s.Tick()

			Expect(s.Write(4, "123")).To(BeTrue())
			Expect(s.Results()).To(Equal([]store.Entry{
				{TaskID: 3, Value: "123"},
				{TaskID: 4, Value: "123"},
			}))
		})
	})

	Context("when reading", func() {
		It("should deliver two constants and take the port", func() {
			got := s.Read([]int{1, 2}, 3)

			Expect(got).To(ConsistOf(
				store.Entry{TaskID: 1, Value: "a"},
				store.Entry{TaskID: 2, Value: "b"},
			))
			Expect(s.IsAvailable()).To(BeFalse())
			Expect(s.Write(3, "123")).To(BeFalse())
		})

		It("should deliver a constant and a result together", func() {
			s.Write(3, "123")
			s.Tick()

			got := s.Read([]int{3, 1}, 4)

			Expect(got).To(HaveLen(2))
			Expect(s.IsAvailable()).To(BeFalse())
		})

		It("should deliver only the first of two results without taking the port", func() {
			s.Write(3, "123")
			s.Tick()
			s.Write(4, "123")
			s.Tick()

			got := s.Read([]int{4, 3}, 5)

			Expect(got).To(Equal([]store.Entry{{TaskID: 4, Value: "123"}}))
			Expect(s.IsAvailable()).To(BeTrue())
			Expect(s.Write(6, "123")).To(BeTrue())
		})

		It("should take the port for a throttled read when configured", func() {
			s = store.MakeBuilder().
				WithThrottledReadConsumesPort(true).
				Build()
			s.Write(3, "123")
			s.Tick()
			s.Write(4, "123")
			s.Tick()

			got := s.Read([]int{3, 4}, 5)

			Expect(got).To(HaveLen(1))
			Expect(s.IsAvailable()).To(BeFalse())
		})

		It("should return nothing when the port is busy", func() {
			s.Write(3, "123")

			Expect(s.Read([]int{1, 2}, 4)).To(BeEmpty())
			Expect(s.Operations()).To(HaveLen(1))
		})
	})

	It("should list constants in id order", func() {
		s = store.MakeBuilder().
			WithConstants([]store.Entry{
				{TaskID: 5, Value: "e"},
				{TaskID: 2, Value: "b"},
			}).
			Build()

		Expect(s.Constants()).To(Equal([]store.Entry{
			{TaskID: 2, Value: "b"},
			{TaskID: 5, Value: "e"},
		}))
	})

	It("should encode operation kinds as letters", func() {
		data, err := json.Marshal(store.Operation{Clock: 2, Kind: store.Write, TaskID: 3})

		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(Equal(`{"clock":2,"type":"W","taskId":3}`))

		var op store.Operation
		Expect(json.Unmarshal([]byte(`{"clock":1,"type":"X","taskId":3}`), &op)).
			To(HaveOccurred())
	})
})
