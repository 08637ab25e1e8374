package dynamorepos

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// fakeClient is an in-memory table store that understands the expressions the repositories send.
type fakeClient struct {
	mu     sync.Mutex
	tables map[string]*fakeTable
	calls  []string

	// indexLag is the number of index queries that still miss every item,
	// like a global secondary index that has not caught up with the table.
	indexLag int
}

type fakeTable struct {
	hashKey string
	indexes map[string][2]string // {index: {hash, range}}
	items   map[string]map[string]types.AttributeValue
}

func newFakeClient(tables Tables) *fakeClient {
	table := func(hash string, indexes map[string][2]string) *fakeTable {
		return &fakeTable{hashKey: hash, indexes: indexes, items: make(map[string]map[string]types.AttributeValue)}
	}
	return &fakeClient{tables: map[string]*fakeTable{
		tables.Accounts:     table("email", map[string][2]string{AccountsIDIndex: {"id", ""}}),
		tables.Users:        table("uid", nil),
		tables.Applications: table("id", map[string][2]string{ApplicationsEmailIndex: {"email", "applicationDate"}}),
		tables.Contact:      table("id", nil),
	}}
}

func (c *fakeClient) table(name *string) (*fakeTable, error) {
	if name == nil {
		return nil, fmt.Errorf("missing table name")
	}
	t, ok := c.tables[*name]
	if !ok {
		return nil, &types.ResourceNotFoundException{Message: name}
	}
	return t, nil
}

func (c *fakeClient) items(table string) []map[string]types.AttributeValue {
	c.mu.Lock()
	defer c.mu.Unlock()
	var items []map[string]types.AttributeValue
	for _, item := range c.tables[table].items {
		items = append(items, item)
	}
	return items
}

func sValue(av types.AttributeValue) string {
	if s, ok := av.(*types.AttributeValueMemberS); ok {
		return s.Value
	}
	return ""
}

// checkCondition handles attribute_exists(x) and attribute_not_exists(x) on the hash key,
// optionally followed by "AND attr = :v" clauses.
func checkCondition(cond *string, existing map[string]types.AttributeValue, values map[string]types.AttributeValue) error {
	if cond == nil {
		return nil
	}
	clauses := strings.Split(*cond, " AND ")
	switch first := clauses[0]; {
	case strings.HasPrefix(first, "attribute_not_exists("):
		if existing != nil {
			return &types.ConditionalCheckFailedException{}
		}
	case strings.HasPrefix(first, "attribute_exists("):
		if existing == nil {
			return &types.ConditionalCheckFailedException{}
		}
	default:
		return fmt.Errorf("unsupported condition %q", *cond)
	}
	for _, clause := range clauses[1:] {
		parts := strings.SplitN(clause, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf("unsupported condition %q", clause)
		}
		want, ok := values[strings.TrimSpace(parts[1])]
		if !ok {
			return fmt.Errorf("missing value for %q", clause)
		}
		if sValue(existing[strings.TrimSpace(parts[0])]) != sValue(want) {
			return &types.ConditionalCheckFailedException{}
		}
	}
	return nil
}

func copyItem(item map[string]types.AttributeValue) map[string]types.AttributeValue {
	cp := make(map[string]types.AttributeValue, len(item))
	for k, v := range item {
		cp[k] = v
	}
	return cp
}

func (c *fakeClient) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, "GetItem")

	t, err := c.table(in.TableName)
	if err != nil {
		return nil, err
	}
	item, ok := t.items[sValue(in.Key[t.hashKey])]
	if !ok {
		return &dynamodb.GetItemOutput{}, nil
	}
	return &dynamodb.GetItemOutput{Item: copyItem(item)}, nil
}

func (c *fakeClient) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, "PutItem")

	t, err := c.table(in.TableName)
	if err != nil {
		return nil, err
	}
	key := sValue(in.Item[t.hashKey])
	if err = checkCondition(in.ConditionExpression, t.items[key], in.ExpressionAttributeValues); err != nil {
		return nil, err
	}
	t.items[key] = copyItem(in.Item)
	return &dynamodb.PutItemOutput{}, nil
}

// UpdateItem supports "SET a = :a, #b = :b" optionally followed by "REMOVE c".
func (c *fakeClient) UpdateItem(_ context.Context, in *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, "UpdateItem")

	t, err := c.table(in.TableName)
	if err != nil {
		return nil, err
	}
	key := sValue(in.Key[t.hashKey])
	existing := t.items[key]
	if err = checkCondition(in.ConditionExpression, existing, in.ExpressionAttributeValues); err != nil {
		return nil, err
	}

	item := copyItem(existing)
	for k, v := range in.Key {
		item[k] = v
	}

	expr := strings.TrimPrefix(*in.UpdateExpression, "SET ")
	var remove []string
	if i := strings.Index(expr, " REMOVE "); i >= 0 {
		remove = strings.Split(expr[i+len(" REMOVE "):], ",")
		expr = expr[:i]
	}
	resolve := func(name string) string {
		name = strings.TrimSpace(name)
		if strings.HasPrefix(name, "#") {
			return in.ExpressionAttributeNames[name]
		}
		return name
	}
	for _, assign := range strings.Split(expr, ",") {
		parts := strings.SplitN(assign, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("unsupported update %q", assign)
		}
		v, ok := in.ExpressionAttributeValues[strings.TrimSpace(parts[1])]
		if !ok {
			return nil, fmt.Errorf("missing value for %q", assign)
		}
		item[resolve(parts[0])] = v
	}
	for _, name := range remove {
		delete(item, resolve(name))
	}
	t.items[key] = item
	if in.ReturnValues == types.ReturnValueAllNew {
		return &dynamodb.UpdateItemOutput{Attributes: copyItem(item)}, nil
	}
	return &dynamodb.UpdateItemOutput{}, nil
}

// Query supports "attr = :v" on the table or one of its indexes, returning a single page.
func (c *fakeClient) Query(_ context.Context, in *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, "Query")

	t, err := c.table(in.TableName)
	if err != nil {
		return nil, err
	}
	keys := [2]string{t.hashKey, ""}
	if in.IndexName != nil {
		var ok bool
		if keys, ok = t.indexes[*in.IndexName]; !ok {
			return nil, fmt.Errorf("unknown index %q", *in.IndexName)
		}
		if c.indexLag > 0 {
			c.indexLag--
			return &dynamodb.QueryOutput{}, nil
		}
	}
	parts := strings.SplitN(*in.KeyConditionExpression, "=", 2)
	if len(parts) != 2 || strings.TrimSpace(parts[0]) != keys[0] {
		return nil, fmt.Errorf("unsupported key condition %q", *in.KeyConditionExpression)
	}
	want := sValue(in.ExpressionAttributeValues[strings.TrimSpace(parts[1])])

	var items []map[string]types.AttributeValue
	for _, item := range t.items {
		if sValue(item[keys[0]]) == want {
			items = append(items, copyItem(item))
		}
	}
	if keys[1] != "" {
		sort.SliceStable(items, func(i, j int) bool {
			return sValue(items[i][keys[1]]) < sValue(items[j][keys[1]])
		})
		if in.ScanIndexForward != nil && !*in.ScanIndexForward {
			for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
				items[i], items[j] = items[j], items[i]
			}
		}
	}
	if in.Limit != nil && int(*in.Limit) < len(items) {
		items = items[:*in.Limit]
	}
	return &dynamodb.QueryOutput{Items: items, Count: int32(len(items))}, nil
}

func (c *fakeClient) Scan(_ context.Context, in *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, "Scan")

	t, err := c.table(in.TableName)
	if err != nil {
		return nil, err
	}
	var items []map[string]types.AttributeValue
	for _, item := range t.items {
		items = append(items, copyItem(item))
	}
	return &dynamodb.ScanOutput{Items: items, Count: int32(len(items))}, nil
}
