package grpc

import (
	"catalog/domain"
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	CatalogServiceName      = "catalog.v1.CatalogService"
	GetItemFullMethod       = "/" + CatalogServiceName + "/GetItem"
	GetCategoryFullMethod   = "/" + CatalogServiceName + "/GetCategory"
	catalogServiceProtoFile = "catalog/v1/catalog.proto"
)

// CatalogReader is the read side of the catalog storage.
type CatalogReader interface {
	GetItem(ctx context.Context, id int64) (domain.Item, error)
	GetCategory(ctx context.Context, id int64) (domain.Category, error)
}

// CatalogServer looks items and categories up by id. Requests carry a
// google.protobuf.Int64Value and responses are google.protobuf.Struct values
// shaped like the HTTP JSON bodies.
type CatalogServer interface {
	GetItem(ctx context.Context, req *wrapperspb.Int64Value) (*structpb.Struct, error)
	GetCategory(ctx context.Context, req *wrapperspb.Int64Value) (*structpb.Struct, error)
}

type CatalogService struct {
	repository CatalogReader
}

func NewCatalogService(repository CatalogReader) *CatalogService {
	return &CatalogService{
		repository: repository,
	}
}

func RegisterCatalogServer(s grpc.ServiceRegistrar, srv CatalogServer) {
	s.RegisterService(&catalogServiceDesc, srv)
}

func (s *CatalogService) GetItem(ctx context.Context, req *wrapperspb.Int64Value) (*structpb.Struct, error) {
	if req.GetValue() <= 0 {
		return nil, status.Error(codes.InvalidArgument, "id must be positive")
	}

	item, err := s.repository.GetItem(ctx, req.GetValue())
	if err != nil {
		return nil, mapError(err)
	}

	price, _ := item.Price.Float64()
	return toStruct(map[string]interface{}{
		"id":          item.ID,
		"name":        item.Name,
		"price":       price,
		"category_id": item.CategoryID,
		"created_at":  item.CreatedAt.Format(time.RFC3339Nano),
		"updated_at":  item.UpdatedAt.Format(time.RFC3339Nano),
	})
}

func (s *CatalogService) GetCategory(ctx context.Context, req *wrapperspb.Int64Value) (*structpb.Struct, error) {
	if req.GetValue() <= 0 {
		return nil, status.Error(codes.InvalidArgument, "id must be positive")
	}

	category, err := s.repository.GetCategory(ctx, req.GetValue())
	if err != nil {
		return nil, mapError(err)
	}

	return toStruct(map[string]interface{}{
		"id":         category.ID,
		"name":       category.Name,
		"created_at": category.CreatedAt.Format(time.RFC3339Nano),
		"updated_at": category.UpdatedAt.Format(time.RFC3339Nano),
	})
}

func toStruct(fields map[string]interface{}) (*structpb.Struct, error) {
	out, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, status.Error(codes.Internal, "failed to encode response")
	}
	return out, nil
}

func mapError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return status.Error(codes.NotFound, "not found")
	}
	zap.L().Error("catalog lookup failed", zap.Error(err))
	return status.Error(codes.Internal, "internal error")
}

var catalogServiceDesc = grpc.ServiceDesc{
	ServiceName: CatalogServiceName,
	HandlerType: (*CatalogServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetItem",
			Handler: unaryHandler(GetItemFullMethod, func(srv CatalogServer) func(context.Context, *wrapperspb.Int64Value) (*structpb.Struct, error) {
				return srv.GetItem
			}),
		},
		{
			MethodName: "GetCategory",
			Handler: unaryHandler(GetCategoryFullMethod, func(srv CatalogServer) func(context.Context, *wrapperspb.Int64Value) (*structpb.Struct, error) {
				return srv.GetCategory
			}),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: catalogServiceProtoFile,
}

type lookup func(context.Context, *wrapperspb.Int64Value) (*structpb.Struct, error)

// unaryHandler builds the method handler protoc-gen-go-grpc would generate
// for an Int64Value -> Struct call.
func unaryHandler(fullMethod string, pick func(CatalogServer) func(context.Context, *wrapperspb.Int64Value) (*structpb.Struct, error)) func(interface{}, context.Context, func(interface{}) error, grpc.UnaryServerInterceptor) (interface{}, error) {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(wrapperspb.Int64Value)
		if err := dec(in); err != nil {
			return nil, err
		}

		call := lookup(pick(srv.(CatalogServer)))
		if interceptor == nil {
			return call(ctx, in)
		}

		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(ctx, req.(*wrapperspb.Int64Value))
		}
		return interceptor(ctx, in, info, handler)
	}
}
