package domain

const (
	DefaultBatchSize = 30

	// MemberStatusRemoved — контакт не смог войти в группу, значит удалил пользователя
	MemberStatusRemoved = 4
)

// ProbeBatch — часть контактов, проверяемая через одну групповую комнату
type ProbeBatch struct {
	Index    int
	Contacts []Contact

	byName map[string]Contact
}

func NewProbeBatch(index int, contacts []Contact) ProbeBatch {
	byName := make(map[string]Contact, len(contacts))
	for _, c := range contacts {
		byName[c.UserName] = c
	}
	return ProbeBatch{Index: index, Contacts: contacts, byName: byName}
}

func (b ProbeBatch) UserNames() []string {
	names := make([]string, len(b.Contacts))
	for i, c := range b.Contacts {
		names[i] = c.UserName
	}
	return names
}

func (b ProbeBatch) Lookup(userName string) (Contact, bool) {
	c, ok := b.byName[userName]
	return c, ok
}

// Partition режет контакты на батчи не больше size в исходном порядке.
// Количество батчей равно ceil(len/size).
func Partition(contacts []Contact, size int) []ProbeBatch {
	if size <= 0 {
		size = DefaultBatchSize
	}
	batches := make([]ProbeBatch, 0, (len(contacts)+size-1)/size)
	for start := 0; start < len(contacts); start += size {
		end := min(start+size, len(contacts))
		batches = append(batches, NewProbeBatch(len(batches), contacts[start:end:end]))
	}
	return batches
}

// RoomMember — запись участника из ответа createchatroom/updatechatroom
type RoomMember struct {
	UserName     string
	MemberStatus int
}

// RoomResult — разобранный ответ на создание комнаты или добавление участников
type RoomResult struct {
	RoomName string
	Members  []RoomMember
}

// Removed возвращает участников со статусом MemberStatusRemoved в порядке ответа
func (r RoomResult) Removed() []string {
	var out []string
	for _, m := range r.Members {
		if m.MemberStatus == MemberStatusRemoved {
			out = append(out, m.UserName)
		}
	}
	return out
}
