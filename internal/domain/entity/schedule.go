package entity

// EventInput is what a user provides when adding a schedule.
type EventInput struct {
	Date     string // optional, defaults to today
	Time     string
	Person   string
	Activity string
}

// PersonSchedule holds one person's events of a day.
type PersonSchedule struct {
	Person string
	Events []*Event
}

// DaySchedule is a day's events grouped per person.
type DaySchedule struct {
	Date   string
	Person string // filter applied, empty when listing everybody
	Groups []PersonSchedule
}

// IsEmpty reports whether no event matched.
func (d *DaySchedule) IsEmpty() bool {
	return len(d.Groups) == 0
}

// GroupByPerson groups events by capitalized person, keeping the order in
// which each person first appears.
func GroupByPerson(events []*Event) []PersonSchedule {
	var groups []PersonSchedule
	index := make(map[string]int)

	for _, ev := range events {
		person := CapitalizeName(ev.Person)
		i, ok := index[person]
		if !ok {
			i = len(groups)
			index[person] = i
			groups = append(groups, PersonSchedule{Person: person})
		}
		groups[i].Events = append(groups[i].Events, ev)
	}

	return groups
}
