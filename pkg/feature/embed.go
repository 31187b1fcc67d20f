package feature

// Embedder turns lag rows into vectors for similarity search
type Embedder struct {
	ClipStd float64 // Standard deviations for clipping (default 3.0)
}

// NewEmbedder creates an embedder with the default clipping
func NewEmbedder() *Embedder {
	return &Embedder{ClipStd: 3.0}
}

// Embed z-normalizes a lag row, clips it to ClipStd and scales it to [-1, 1],
// so that the shape of the window, not its level, drives similarity
func (e *Embedder) Embed(inputs []float64) []float32 {
	vector := make([]float32, len(inputs))
	if len(inputs) == 0 {
		return vector
	}

	mean, std := meanStd(inputs)
	if std == 0 {
		return vector
	}

	for i, v := range inputs {
		z := (v - mean) / std
		if z > e.ClipStd {
			z = e.ClipStd
		}
		if z < -e.ClipStd {
			z = -e.ClipStd
		}
		vector[i] = float32(z / e.ClipStd)
	}

	return vector
}
