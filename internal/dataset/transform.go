package dataset

// Transform maps raw pixel features to model inputs.
type Transform func(features []float32) []float32

// Normalize returns a transform that scales and shifts features:
// (x/scale - mean) / std. With scale=255, mean=0.5, std=0.5 it maps
// 8-bit pixels into [-1, 1].
func Normalize(scale, mean, std float32) Transform {
	return func(features []float32) []float32 {
		out := make([]float32, len(features))
		for i, v := range features {
			out[i] = (v/scale - mean) / std
		}
		return out
	}
}

// Compose chains transforms left to right.
func Compose(transforms ...Transform) Transform {
	return func(features []float32) []float32 {
		for _, t := range transforms {
			features = t(features)
		}
		return features
	}
}
