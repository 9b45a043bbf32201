// Package interval содержит арифметику дат для движка бронирований:
// пересечение полуинтервалов [заезд, выезд) и подсчёт ночей.
package interval

import "time"

// Overlaps сообщает, пересекаются ли полуинтервалы [aStart, aEnd) и [bStart, bEnd).
//
// Полуинтервальная семантика: общая граница пересечением не считается,
// выезд в день чужого заезда допустим.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// Nights возвращает количество ночей между заездом и выездом,
// округляя неполные сутки вверх.
func Nights(checkIn, checkOut time.Time) int {
	d := checkOut.Sub(checkIn)
	if d <= 0 {
		return 0
	}
	nights := int(d / (24 * time.Hour))
	if d%(24*time.Hour) != 0 {
		nights++
	}
	return nights
}
