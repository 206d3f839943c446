package chat

import "testing"

func TestNewTarget(t *testing.T) {
	tests := []struct {
		name       string
		receiverID string
		groupID    string
		wantErr    bool
		wantGroup  bool
		wantRoom   string
	}{
		{name: "direct", receiverID: "u1", wantRoom: "user_u1"},
		{name: "group", groupID: "g1", wantGroup: true, wantRoom: "group_g1"},
		{name: "both set", receiverID: "u1", groupID: "g1", wantErr: true},
		{name: "neither set", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target, err := NewTarget(tt.receiverID, tt.groupID)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewTarget: %v", err)
			}
			if target.IsGroup() != tt.wantGroup {
				t.Errorf("IsGroup = %v, want %v", target.IsGroup(), tt.wantGroup)
			}
			if target.Room() != tt.wantRoom {
				t.Errorf("Room = %q, want %q", target.Room(), tt.wantRoom)
			}
			if target.ReceiverID() != tt.receiverID || target.GroupID() != tt.groupID {
				t.Errorf("accessors = (%q, %q), want (%q, %q)",
					target.ReceiverID(), target.GroupID(), tt.receiverID, tt.groupID)
			}
		})
	}
}
