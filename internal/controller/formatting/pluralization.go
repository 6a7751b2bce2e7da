package formatting

// PluralizeRooms возвращает правильное склонение слова "номер"
func PluralizeRooms(count int) string {
	if count%10 == 1 && count%100 != 11 {
		return "номер"
	}
	if count%10 >= 2 && count%10 <= 4 && (count%100 < 10 || count%100 >= 20) {
		return "номера"
	}
	return "номеров"
}
