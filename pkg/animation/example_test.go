package animation_test

import (
	"fmt"
	"time"

	"github.com/go-drift/margins/pkg/animation"
	"github.com/go-drift/margins/pkg/layout"
	drifttest "github.com/go-drift/margins/pkg/testing"
)

// This example shows the decelerating curve used for margin animations.
func ExampleDecelerate() {
	curve := animation.Decelerate(1)

	fmt.Printf("Progress 0.00 -> %.4f\n", curve(0))
	fmt.Printf("Progress 0.50 -> %.4f\n", curve(0.5))
	fmt.Printf("Progress 0.75 -> %.4f\n", curve(0.75))
	fmt.Printf("Progress 1.00 -> %.4f\n", curve(1))

	// Output:
	// Progress 0.00 -> 0.0000
	// Progress 0.50 -> 0.7500
	// Progress 0.75 -> 0.9375
	// Progress 1.00 -> 1.0000
}

// This example interpolates margins between hidden and fully shown.
func ExampleLerpEdgeInsets() {
	hidden := layout.EdgeInsets{}
	shown := layout.EdgeInsetsLTRB(0, 40, 0, 20)

	eased := animation.DecelerateCurve(0.5)
	mid := animation.LerpEdgeInsets(hidden, shown, eased)
	fmt.Printf("Margins at 0.5: top=%.0f bottom=%.0f\n", mid.Top, mid.Bottom)

	// Output:
	// Margins at 0.5: top=30 bottom=15
}

// This example looks up a curve by the name used in scenario files.
func ExampleCurveByName() {
	curve, ok := animation.CurveByName("easeInOut")
	fmt.Println(ok, fmt.Sprintf("%.2f", curve(0.5)))

	_, ok = animation.CurveByName("bounce")
	fmt.Println(ok)

	// Output:
	// true 0.78
	// false
}

// This example shows how to create a custom easing curve.
func ExampleCubicBezier() {
	// Create a custom curve matching CSS cubic-bezier(0.4, 0.0, 0.2, 1.0)
	customEase := animation.CubicBezier(0.4, 0.0, 0.2, 1.0)

	fmt.Printf("Progress 0.0 -> %.2f\n", customEase(0.0))
	fmt.Printf("Progress 0.5 -> %.2f\n", customEase(0.5))
	fmt.Printf("Progress 1.0 -> %.2f\n", customEase(1.0))

	// Output:
	// Progress 0.0 -> 0.00
	// Progress 0.5 -> 0.78
	// Progress 1.0 -> 1.00
}

// This example shows a frame-driven task stopping itself.
func ExampleFrameScheduler() {
	clk := drifttest.NewFakeClock()
	s := animation.NewFrameScheduler(clk)

	var id animation.TickerID
	id = s.Start(animation.DefaultFrameInterval, func(elapsed time.Duration) {
		fmt.Println("tick at", elapsed)
		if elapsed >= 20*time.Millisecond {
			s.Stop(id)
		}
	})

	for range 3 {
		clk.Advance(10 * time.Millisecond)
		s.Step()
	}
	fmt.Println("active:", s.HasActiveTickers())

	// Output:
	// tick at 10ms
	// tick at 20ms
	// active: false
}
