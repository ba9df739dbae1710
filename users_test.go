package playlake

import (
	"reflect"
	"testing"
)

func TestExtractUsersLastWriteWins(t *testing.T) {
	logs := []LogRecord{
		{UserID: "U1", FirstName: "Lily", LastName: "Koch", Gender: "F", Level: "free", Page: PageNextSong, TS: 100},
		{UserID: "U1", FirstName: "Lily", LastName: "Koch", Gender: "F", Level: "paid", Page: PageNextSong, TS: 200},
	}
	users := ExtractUsers(logs)
	want := []UserRow{{UserID: "U1", FirstName: "Lily", LastName: "Koch", Gender: "F", Level: "paid"}}
	if !reflect.DeepEqual(users, want) {
		t.Fatalf("unexpected users: %#v", users)
	}

	// input order must not matter - the aggregation keys on timestamp
	users = ExtractUsers([]LogRecord{logs[1], logs[0]})
	if !reflect.DeepEqual(users, want) {
		t.Fatalf("unexpected users after reorder: %#v", users)
	}
}

func TestExtractUsersTimestampTie(t *testing.T) {
	logs := []LogRecord{
		{UserID: "U1", Level: "free", Page: PageNextSong, TS: 100},
		{UserID: "U1", Level: "paid", Page: PageNextSong, TS: 100},
	}
	users := ExtractUsers(logs)
	if len(users) != 1 || users[0].Level != "free" {
		t.Fatalf("tie must keep the earlier record in input order: %#v", users)
	}
}

func TestExtractUsersExcludesNonPlays(t *testing.T) {
	logs := []LogRecord{
		{UserID: "U1", Level: "free", Page: "Home", TS: 100},
		{UserID: "U2", Level: "paid", Page: PageNextSong, TS: 50},
		{UserID: "U2", Level: "free", Page: "Logout", TS: 500},
	}
	users := ExtractUsers(logs)
	// U1 only appears in non-play actions and must not get a row; U2's
	// snapshot must ignore the later non-play event.
	want := []UserRow{{UserID: "U2", Level: "paid"}}
	if !reflect.DeepEqual(users, want) {
		t.Fatalf("unexpected users: %#v", users)
	}
}

func TestExtractUsersExcludesAnonymous(t *testing.T) {
	logs := []LogRecord{
		{UserID: "", Level: "free", Page: PageNextSong, TS: 100},
	}
	if users := ExtractUsers(logs); len(users) != 0 {
		t.Fatalf("anonymous events must not produce user rows: %#v", users)
	}
}

func TestExtractUsersSorted(t *testing.T) {
	logs := []LogRecord{
		{UserID: "9", Page: PageNextSong, TS: 1},
		{UserID: "10", Page: PageNextSong, TS: 1},
		{UserID: "2", Page: PageNextSong, TS: 1},
	}
	users := ExtractUsers(logs)
	got := []string{users[0].UserID, users[1].UserID, users[2].UserID}
	want := []string{"10", "2", "9"} // lexical order on the string key
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected order: %v", got)
	}
}
