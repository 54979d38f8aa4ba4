package attr

//*******************************************
// graph attributes
//*******************************************

type EdgeAttribs struct {
	Type   RoadType
	Length float64
	Speed  SpeedRaw
	Name   string
	OsmID  int64
}
