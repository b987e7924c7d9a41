package geo

import "math"

const earthRadiusM = 6371007.0

func havFunction(angleRad float64) float64 {
	return (1 - math.Cos(angleRad)) / 2.0
}

func degreeToRadians(angle float64) float64 {
	return angle * (math.Pi / 180.0)
}

// HaversineDistance jarak great-circle antara dua koordinat, dalam meter.
func HaversineDistance(latOne, lonOne, latTwo, lonTwo float64) float64 {
	latOne = degreeToRadians(latOne)
	lonOne = degreeToRadians(lonOne)
	latTwo = degreeToRadians(latTwo)
	lonTwo = degreeToRadians(lonTwo)

	a := havFunction(latOne-latTwo) + math.Cos(latOne)*math.Cos(latTwo)*havFunction(lonOne-lonTwo)
	c := 2.0 * math.Asin(math.Sqrt(a))
	return earthRadiusM * c
}
