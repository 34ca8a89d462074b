package importer_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/invoicer/internal/client"
	"github.com/MrJamesThe3rd/invoicer/internal/importer"
	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
)

func TestService_Open(t *testing.T) {
	type testCase struct {
		name      string
		setupMock func(m *importer.MockClientLister)
		wantErr   bool
	}

	acmeID := uuid.New()

	tests := []testCase{
		{
			name: "CachesClients",
			setupMock: func(m *importer.MockClientLister) {
				m.EXPECT().List(gomock.Any()).Return([]*client.Client{{ID: acmeID, Name: "Acme"}}, nil).Times(1)
			},
		},
		{
			name: "ListFails",
			setupMock: func(m *importer.MockClientLister) {
				m.EXPECT().List(gomock.Any()).Return(nil, errors.New("db error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			lister := importer.NewMockClientLister(ctrl)
			tt.setupMock(lister)

			svc := importer.NewService(lister, importer.NewMockInvoiceCreator(ctrl), importer.Config{DueDays: 30, SessionTTL: time.Hour})

			sess, err := svc.Open(context.Background())
			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)

			_, err = sess.AddFile("2024-01-15.csv", strings.NewReader(timesheet))
			require.NoError(t, err)
			require.NoError(t, sess.SetGlobalClient(acmeID))

			got, err := svc.Session(sess.ID)
			require.NoError(t, err)
			assert.Same(t, sess, got)

			v := got.Snapshot()
			assert.Equal(t, []importer.ClientOption{{ID: acmeID, Name: "Acme"}}, v.Clients)
			assert.Equal(t, importer.StatusReady, v.Records[0].Status)
		})
	}
}

func TestService_SessionLifecycle(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	lister := importer.NewMockClientLister(ctrl)
	lister.EXPECT().List(gomock.Any()).Return(nil, nil)

	svc := importer.NewService(lister, importer.NewMockInvoiceCreator(ctrl), importer.Config{})

	_, err := svc.Session(uuid.New())
	assert.ErrorIs(t, err, importer.ErrSessionNotFound)

	sess, err := svc.Open(context.Background())
	require.NoError(t, err)

	require.NoError(t, svc.Close(sess.ID))
	assert.ErrorIs(t, svc.Close(sess.ID), importer.ErrSessionNotFound)

	_, err = svc.Submit(context.Background(), sess.ID, nil)
	assert.ErrorIs(t, err, importer.ErrSessionNotFound)
}

func TestService_Submit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	acmeID := uuid.New()

	lister := importer.NewMockClientLister(ctrl)
	lister.EXPECT().List(gomock.Any()).Return([]*client.Client{{ID: acmeID, Name: "Acme"}}, nil)

	creator := importer.NewMockInvoiceCreator(ctrl)
	creator.EXPECT().Create(gomock.Any(), gomock.Any()).Return(&invoice.Invoice{ID: uuid.New()}, nil)

	svc := importer.NewService(lister, creator, importer.Config{DueDays: 30})

	sess, err := svc.Open(context.Background())
	require.NoError(t, err)

	_, err = sess.AddFile("2024-01-15.csv", strings.NewReader(timesheet))
	require.NoError(t, err)
	require.NoError(t, sess.SetGlobalClient(acmeID))

	res, err := svc.Submit(context.Background(), sess.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Succeeded)
	assert.Equal(t, 0, sess.Len())
}
