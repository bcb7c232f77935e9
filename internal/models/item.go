package models

import "time"

// Item представляет предмет домашнего имущества пользователя.
type Item struct {
	ID        int64     // Идентификатор записи
	UserUID   string    // Владелец предмета
	Name      string    // Название предмета
	Category  string    // Категория (мебель, техника и т.д.)
	Room      string    // Комната, в которой находится предмет
	Value     float64   // Оценочная стоимость
	Notes     string    // Произвольные заметки
	CreatedAt time.Time // Дата добавления
}

// DummyItem используется для приёма данных из JSON-запроса,
// прежде чем конвертировать их в Item.
type DummyItem struct {
	Name     string  `json:"name" validate:"required,max=200"`     // Название предмета
	Category string  `json:"category" validate:"required,max=100"` // Категория
	Room     string  `json:"room" validate:"required,max=100"`     // Комната
	Value    float64 `json:"value" validate:"gte=0"`               // Оценочная стоимость (>=0)
	Notes    string  `json:"notes,omitempty" validate:"max=2000"`  // Заметки (опционально)
}
