package salon

// NewDemo builds a salon backend seeded with the demo catalog, for local
// runs and examples.
func NewDemo(opts ...Option) *Salon {
	return New(
		"LookTown",
		"Салон красоты LookTown: маникюр, педикюр, парикмахерские услуги и уход за лицом. "+
			"Работаем ежедневно с 10:00 до 20:00, м. Чистые пруды, Мясницкая 15. Телефон +7 495 000-00-00.",
		demoServices,
		demoMasters,
		opts...,
	)
}

var demoServices = []Service{
	{
		ID:          10000001,
		Name:        "Маникюр классический",
		Category:    "Маникюр",
		Price:       1800,
		DurationMin: 60,
		Description: "Классический обрезной маникюр с покрытием гель-лак",
	},
	{
		ID:          10000002,
		Name:        "Маникюр аппаратный",
		Category:    "Маникюр",
		Price:       2200,
		DurationMin: 60,
		Description: "Аппаратный маникюр, снятие и покрытие гель-лак",
	},
	{
		ID:          10000003,
		Name:        "Педикюр классический",
		Category:    "Педикюр",
		Price:       2500,
		DurationMin: 90,
		Description: "Классический педикюр с покрытием",
	},
	{
		ID:          10000004,
		Name:        "Женская стрижка",
		Category:    "Парикмахерские услуги",
		Price:       2800,
		DurationMin: 60,
		Description: "Стрижка любой сложности, укладка включена",
	},
	{
		ID:          10000005,
		Name:        "Окрашивание в один тон",
		Category:    "Парикмахерские услуги",
		Price:       5500,
		DurationMin: 120,
		Description: "Окрашивание стойким красителем в один тон",
	},
	{
		ID:          10000006,
		Name:        "Чистка лица",
		Category:    "Косметология",
		Price:       3900,
		DurationMin: 90,
		Description: "Комбинированная чистка лица с уходом",
	},
}

var demoMasters = []Master{
	{ID: 501, Name: "Анна", Grade: "топ-мастер", ServiceIDs: []int64{10000001, 10000002, 10000003}},
	{ID: 502, Name: "Мария", Grade: "мастер", ServiceIDs: []int64{10000001, 10000002}},
	{ID: 503, Name: "Ольга", Grade: "топ-мастер", ServiceIDs: []int64{10000004, 10000005}},
	{ID: 504, Name: "Ирина", Grade: "мастер", ServiceIDs: []int64{10000006}},
}
