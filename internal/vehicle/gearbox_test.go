package vehicle

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/trackdyn/internal/config"
	"github.com/san-kum/trackdyn/internal/dynamo"
)

var _ = Describe("Gearbox", func() {
	var (
		cfg    config.GearboxConfig
		gb     *Gearbox
		events []GearEvent
	)

	BeforeEach(func() {
		cfg = config.GearboxConfig{Gears: config.DefaultGears(), AutoGear: true, AutoBoxLatency: 0.5}
		events = nil
	})

	JustBeforeEach(func() {
		var err error
		gb, err = NewGearbox(cfg)
		Expect(err).NotTo(HaveOccurred())
		gb.listener = func(ev GearEvent) { events = append(events, ev) }
	})

	It("rejects an empty gear table", func() {
		_, err := NewGearbox(config.GearboxConfig{})
		Expect(err).To(MatchError(dynamo.ErrNoGears))
	})

	It("starts in neutral", func() {
		Expect(gb.HasNeutral()).To(BeTrue())
		Expect(gb.Neutral()).To(Equal(2))
		Expect(gb.Current()).To(Equal(gb.Neutral()))
		Expect(gb.Reverse()).To(BeFalse())
	})

	It("scales the reported ratio by boost", func() {
		Expect(gb.Gear(3, 4).Ratio).To(BeNumerically("~", 3.0, 1e-12))
		Expect(gb.Gear(99, 1).Ratio).To(BeZero())
	})

	Context("without shift latency", func() {
		It("shifts on the same call", func() {
			Expect(gb.Shift(true, 0.5, 1, 1)).To(BeFalse())
			Expect(gb.Current()).To(Equal(3))
			Expect(gb.LastShift()).To(Equal(1.0))
			Expect(events).To(HaveLen(1))
			Expect(events[0]).To(Equal(GearEvent{From: 2, To: 3, Up: true, Time: 1}))
		})

		It("stays on the forward side of neutral with forward throttle", func() {
			gb.Shift(true, 1, 0, 1)
			gb.Shift(false, 1, 0, 1)
			gb.Shift(false, 1, 0, 1)
			Expect(gb.Current()).To(Equal(gb.Neutral()))
			Expect(gb.Reverse()).To(BeFalse())
		})

		It("drops into reverse with reverse throttle", func() {
			gb.Shift(false, -1, 0, 1)
			Expect(gb.Current()).To(Equal(1))
			Expect(gb.Reverse()).To(BeTrue())

			gb.Shift(true, -1, 0, 1)
			Expect(gb.Current()).To(Equal(1), "reverse throttle keeps the gear below neutral")
		})

		It("does not cross neutral with zero throttle", func() {
			gb.Shift(true, 1, 0, 1)
			gb.Shift(false, 0, 0, 1)
			gb.Shift(false, 0, 0, 1)
			Expect(gb.Current()).To(Equal(gb.Neutral()))
		})

		It("clamps to the top gear", func() {
			for i := 0; i < 20; i++ {
				gb.Shift(true, 1, 0, 1)
			}
			Expect(gb.Current()).To(Equal(gb.Last()))
		})
	})

	Context("with shift latency", func() {
		BeforeEach(func() {
			cfg.ShiftLatency = 0.5
		})

		It("leaves neutral immediately", func() {
			Expect(gb.Shift(true, 1, 0, 1)).To(BeFalse())
			Expect(gb.Current()).To(Equal(3))
		})

		It("defers upshifts above neutral until the countdown ends", func() {
			gb.Shift(true, 1, 0, 1)
			Expect(gb.Shift(true, 1, 0.1, 1)).To(BeTrue())
			Expect(gb.Pending()).To(BeTrue())
			Expect(gb.Current()).To(Equal(3))
			Expect(gb.Remaining()).To(BeNumerically("~", 0.5, 1e-12))

			gb.Advance(0.3, 1, 0.4)
			Expect(gb.Current()).To(Equal(3))

			gb.Advance(0.3, 1, 0.7)
			Expect(gb.Pending()).To(BeFalse())
			Expect(gb.Current()).To(Equal(4))
			Expect(events).To(ContainElement(GearEvent{From: 3, To: 3, Up: true, Pending: true, Time: 0.1}))
			Expect(events).To(ContainElement(GearEvent{From: 3, To: 4, Up: true, Time: 0.7}))
		})

		It("shortens the countdown with boost", func() {
			gb.Shift(true, 1, 0, 4)
			gb.Shift(true, 1, 0, 4)
			Expect(gb.Remaining()).To(BeNumerically("~", 0.25, 1e-12))
		})

		It("refuses new requests while pending", func() {
			gb.Shift(true, 1, 0, 1)
			gb.Shift(true, 1, 0, 1)
			Expect(gb.Shift(false, 1, 0.1, 1)).To(BeFalse())
			Expect(gb.Current()).To(Equal(3))
			Expect(gb.Pending()).To(BeTrue())
		})

		It("downshifts immediately", func() {
			gb.Shift(true, 1, 0, 1)
			gb.pending = false
			gb.current = 5
			Expect(gb.Shift(false, 1, 0, 1)).To(BeFalse())
			Expect(gb.Current()).To(Equal(4))
		})

		It("cancels a pending shift on reset", func() {
			gb.Shift(true, 1, 0, 1)
			gb.Shift(true, 1, 0, 1)
			gb.Reset()
			Expect(gb.Pending()).To(BeFalse())
			Expect(gb.Current()).To(Equal(gb.Neutral()))

			gb.Advance(1, 1, 1)
			Expect(gb.Current()).To(Equal(gb.Neutral()))
		})
	})
})

var _ = Describe("Automatic gearbox", func() {
	var m *Movement

	BeforeEach(func() {
		m, _, _ = newTestVehicle(GinkgoT(), config.DefaultConfig())
	})

	It("holds neutral with no input", func() {
		for i := 0; i < 120; i++ {
			m.Tick(testDt, RoleAuthoritative)
		}
		Expect(m.Gearbox().Current()).To(Equal(m.Gearbox().Neutral()))
	})

	It("engages first forward gear on throttle", func() {
		m.SetThrottle(0.5)
		m.Tick(testDt, RoleAuthoritative)
		Expect(m.Gearbox().Current()).To(Equal(m.Gearbox().Neutral() + 1))
		Expect(m.Gearbox().Reverse()).To(BeFalse())
	})

	It("engages reverse on negative throttle", func() {
		m.SetThrottle(-0.5)
		m.Tick(testDt, RoleAuthoritative)
		Expect(m.Gearbox().Current()).To(Equal(m.Gearbox().Neutral() - 1))
		Expect(m.Gearbox().Reverse()).To(BeTrue())
	})

	It("engages a gear on pure steering for tracked vehicles", func() {
		m.SetSteering(1)
		m.Tick(testDt, RoleAuthoritative)
		Expect(m.Gearbox().Current()).NotTo(Equal(m.Gearbox().Neutral()))
	})

	It("reports shifts to the listener", func() {
		var got []GearEvent
		WithGearListener(func(ev GearEvent) { got = append(got, ev) })(m)

		m.SetThrottle(1)
		m.Tick(testDt, RoleAuthoritative)
		Expect(got).To(HaveLen(1))
		Expect(got[0].From).To(Equal(2))
		Expect(got[0].To).To(Equal(3))
	})
})
