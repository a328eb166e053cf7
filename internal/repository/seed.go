package repository

import "github.com/yizeng/gab/gin/gorm/housing-events/internal/domain"

// SeedEvents are used when no events document exists yet.
func SeedEvents() []domain.Event {
	return []domain.Event{
		{
			ID:              "1",
			Title:           "社區中秋聯歡晚會",
			Date:            "2023-09-29",
			Time:            "18:00 - 21:00",
			Location:        "A棟 1F 交誼廳",
			Description:     "歡迎所有住戶參加，現場備有烤肉與茶點，請自備環保餐具。",
			ImageURL:        "https://picsum.photos/seed/bbq/600/400",
			Deadline:        "2023-09-25",
			MaxParticipants: 50,
			IsOpen:          true,
			FormFields: append(domain.DefaultFormFields(),
				domain.FormField{Name: "dietary", Label: "飲食習慣 (葷/素)", Type: domain.FieldText}),
		},
		{
			ID:              "2",
			Title:           "週末瑜珈工作坊",
			Date:            "2023-10-07",
			Time:            "09:00 - 11:00",
			Location:        "B棟 頂樓花園",
			Description:     "放鬆身心，適合初學者的瑜珈課程，請穿著輕便服裝。",
			ImageURL:        "https://picsum.photos/seed/yoga/600/400",
			Deadline:        "2023-10-06",
			MaxParticipants: 10,
			IsOpen:          true,
			FormFields: append(domain.DefaultFormFields(),
				domain.FormField{Name: "experience", Label: "瑜珈經驗 (年)", Type: domain.FieldNumber}),
		},
	}
}
