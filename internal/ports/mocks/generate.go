//go:generate mockgen -source=../order_repository.go -destination=./mock_order_repository.go -package=mocks
//go:generate mockgen -source=../user_repository.go  -destination=./mock_user_repository.go  -package=mocks
//go:generate mockgen -source=../response_cache.go   -destination=./mock_response_cache.go   -package=mocks
//go:generate mockgen -source=../token_denylist.go   -destination=./mock_token_denylist.go   -package=mocks
//go:generate mockgen -source=../event_producer.go   -destination=./mock_event_producer.go   -package=mocks
//go:generate mockgen -source=../order_service.go    -destination=./mock_order_service.go    -package=mocks
//go:generate mockgen -source=../auth_service.go     -destination=./mock_auth_service.go     -package=mocks

package mocks
