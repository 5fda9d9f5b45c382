package telemetry

// FlightRow is one flight recorder sample for flight.csv.
type FlightRow struct {
	SimTimeSec float64 `csv:"sim_time"`
	X          float64 `csv:"x"`
	Y          float64 `csv:"y"`
	Z          float64 `csv:"z"`
	Speed      float64 `csv:"speed"`
	PitchDeg   float64 `csv:"pitch_deg"`
	YawDeg     float64 `csv:"yaw_deg"`
	RollDeg    float64 `csv:"roll_deg"`
	Hull       float64 `csv:"hull"`
	ShieldMean float64 `csv:"shield_mean"`
	WarpPhase  string  `csv:"warp_phase"`
}

// EventRow is one gameplay cue for events.csv.
type EventRow struct {
	SimTimeSec float64 `csv:"sim_time"`
	Event      string  `csv:"event"`
}
