package address

import "strings"

type Field string

const (
	FieldStreet    Field = "street"
	FieldHouse     Field = "house"
	FieldEntrance  Field = "entrance"
	FieldFloor     Field = "floor"
	FieldApartment Field = "apartment"
)

// Fields is an ordered set of missing address parts. The zero value means nothing is missing.
type Fields []Field

var fieldTitles = map[Field]string{
	FieldStreet:    "улица",
	FieldHouse:     "дом",
	FieldEntrance:  "подъезд",
	FieldFloor:     "этаж",
	FieldApartment: "квартира",
}

func (f Field) Title() string {
	if title, ok := fieldTitles[f]; ok {
		return title
	}
	return string(f)
}

func (f Fields) Empty() bool {
	return len(f) == 0
}

func (f Fields) Titles() string {
	titles := make([]string, len(f))
	for i, field := range f {
		titles[i] = field.Title()
	}
	return strings.Join(titles, ", ")
}
