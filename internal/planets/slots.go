package planets

// Slots is the fixed size layout the device programs receive as
// uPosition[MaxPlanets] and uRadius[MaxPlanets]. Slots past the live
// planet count hold the origin and a zero radius, which exerts no force.
type Slots struct {
	Position [2 * MaxPlanets]float32
	Radius   [MaxPlanets]float32
	Count    int
}

// Slots snapshots the registry into the device layout.
func (r *Registry) Slots() Slots {
	var s Slots
	for i, p := range r.planets {
		s.Position[2*i] = p.Position[0]
		s.Position[2*i+1] = p.Position[1]
		s.Radius[i] = p.Radius
	}
	s.Count = len(r.planets)
	return s
}

// ShaderUniforms stores the arrays in m under their Kage names.
func (s *Slots) ShaderUniforms(m map[string]any) {
	m["UPosition"] = append([]float32(nil), s.Position[:]...)
	m["URadius"] = append([]float32(nil), s.Radius[:]...)
}
