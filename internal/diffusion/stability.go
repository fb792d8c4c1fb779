package diffusion

// MaxStableRate returns the largest rate for which the explicit scheme stays
// stable at grid spacings dx and dy.
func MaxStableRate(dx, dy float64) float64 {
	return 0.5 / (1/(dx*dx) + 1/(dy*dy))
}

func IsStable(rate, dx, dy float64) bool {
	return rate <= MaxStableRate(dx, dy)
}
