package database

import "testing"

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "valid", cfg: Config{DSN: "postgres://crm@localhost:5432/crm", MaxOpenConns: 10, MaxIdleConns: 5}},
		{name: "blank dsn", cfg: Config{DSN: "  "}, wantErr: true},
		{name: "negative pool", cfg: Config{DSN: "postgres://crm@localhost/crm", MaxOpenConns: -1}, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := tc.cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}
