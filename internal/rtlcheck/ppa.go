package rtlcheck

// PPAEstimate is a coarse power/performance/area guess derived purely from
// structural counts. Scores are relative indicators, not physical units.
type PPAEstimate struct {
	AreaScore        int    `json:"area_score"`
	PowerScore       int    `json:"power_score"`
	PerformanceScore int    `json:"performance_score"`
	ComplexityLevel  string `json:"complexity_level"`
}

// EstimatePPA maps structural counts onto indicative scores. The base
// weight is always_blocks*2 + assign_statements*1 + module_instances*3;
// area and power grow with it, performance degrades from 100 with a floor
// of 10.
func EstimatePPA(code string) PPAEstimate {
	m := CountMetrics(code)
	base := m.AlwaysBlocks*2 + m.AssignStmts + m.ModuleInstances*3

	est := PPAEstimate{
		AreaScore:        maxInt(1, base*10),
		PowerScore:       maxInt(1, base*5),
		PerformanceScore: maxInt(10, 100-base),
	}
	switch {
	case base < 5:
		est.ComplexityLevel = "Low"
	case base < 15:
		est.ComplexityLevel = "Medium"
	default:
		est.ComplexityLevel = "High"
	}
	return est
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
