package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Sender --dir ../domain/notification --output domain/notification --outpkg notificationmock --filename sender_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name BlobStore --dir ../usecase --output usecase --outpkg usecasemock --filename blob_store_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Notifier --dir ../usecase --output usecase --outpkg usecasemock --filename notifier_mock.go
