package client_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/invoicer/internal/client"
)

func TestService_Create(t *testing.T) {
	type args struct {
		params client.CreateParams
	}

	type testCase struct {
		name      string
		args      args
		setupMock func(m *client.MockRepository)
		wantErr   error
	}

	tests := []testCase{
		{
			name: "Success",
			args: args{params: client.CreateParams{Name: "  Acme Corp ", Email: "billing@acme.test"}},
			setupMock: func(m *client.MockRepository) {
				m.EXPECT().
					CreateClient(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, c *client.Client) error {
						assert.Equal(t, "Acme Corp", c.Name)
						c.ID = uuid.New()
						return nil
					})
			},
		},
		{
			name:    "MissingName",
			args:    args{params: client.CreateParams{Name: "   "}},
			wantErr: client.ErrNameMissing,
		},
		{
			name: "RepoError",
			args: args{params: client.CreateParams{Name: "Acme"}},
			setupMock: func(m *client.MockRepository) {
				m.EXPECT().CreateClient(gomock.Any(), gomock.Any()).Return(errors.New("db error"))
			},
			wantErr: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := client.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := client.NewService(repo)
			got, err := svc.Create(context.Background(), tt.args.params)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.Equal(t, tt.wantErr.Error(), err.Error())
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, got.ID)
			assert.Equal(t, "billing@acme.test", got.Email)
		})
	}
}

func TestService_Update_RejectsBlankName(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := client.NewService(client.NewMockRepository(ctrl))

	err := svc.Update(context.Background(), &client.Client{ID: uuid.New(), Name: " "})
	assert.ErrorIs(t, err, client.ErrNameMissing)
}

func TestService_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := client.NewMockRepository(ctrl)
	repo.EXPECT().ListClients(gomock.Any()).Return([]*client.Client{
		{ID: uuid.New(), Name: "Acme"},
		{ID: uuid.New(), Name: "Globex"},
	}, nil)

	got, err := client.NewService(repo).List(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
