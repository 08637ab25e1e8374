package dynamorepos

import (
	"context"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/pkg/errors"

	"github.com/stratosedge/portal/core/account"
	"github.com/stratosedge/portal/core/application"
	"github.com/stratosedge/portal/core/contact"
	"github.com/stratosedge/portal/core/profile"
)

func isConditionFailed(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	return errors.As(err, &ccf)
}

func str(v string) types.AttributeValue {
	return &types.AttributeValueMemberS{Value: v}
}

// Accounts

type accountRepository struct {
	client Client
	table  string
}

var _ account.Repository = (*accountRepository)(nil)

func NewAccountRepository(client Client, tables Tables) account.Repository {
	return &accountRepository{client: client, table: tables.Accounts}
}

func (repo *accountRepository) CreateAccount(ctx context.Context, acc account.Account) (account.Account, error) {
	item, err := attributevalue.MarshalMap(newAccountItem(acc))
	if err != nil {
		return account.Account{}, errors.Wrap(err, "marshalling account")
	}
	_, err = repo.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(repo.table),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(email)"),
	})
	if err != nil {
		if isConditionFailed(err) {
			return account.Account{}, account.ErrEmailExists
		}
		return account.Account{}, errors.Wrap(err, "putting account")
	}
	return acc, nil
}

func (repo *accountRepository) GetAccountByEmail(ctx context.Context, email string) (account.Account, error) {
	out, err := repo.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(repo.table),
		Key:            map[string]types.AttributeValue{"email": str(email)},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return account.Account{}, errors.Wrap(err, "getting account")
	}
	if out.Item == nil {
		return account.Account{}, account.ErrNotFound
	}
	var item accountItem
	if err = attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return account.Account{}, errors.Wrap(err, "unmarshalling account")
	}
	return item.account(), nil
}

func (repo *accountRepository) GetAccountByID(ctx context.Context, id string) (account.Account, error) {
	out, err := repo.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(repo.table),
		IndexName:                 aws.String(AccountsIDIndex),
		KeyConditionExpression:    aws.String("id = :id"),
		ExpressionAttributeValues: map[string]types.AttributeValue{":id": str(id)},
		Limit:                     aws.Int32(1),
	})
	if err != nil {
		return account.Account{}, errors.Wrap(err, "querying account by id")
	}
	if len(out.Items) == 0 {
		return account.Account{}, account.ErrNotFound
	}
	var item accountItem
	if err = attributevalue.UnmarshalMap(out.Items[0], &item); err != nil {
		return account.Account{}, errors.Wrap(err, "unmarshalling account")
	}
	return item.account(), nil
}

// UpdateAccount writes through the table's hash key, so a freshly created
// account can be updated before the id index has caught up.
func (repo *accountRepository) UpdateAccount(ctx context.Context, acc account.Account) (account.Account, error) {
	if acc.Email == "" {
		return account.Account{}, account.ErrNotFound
	}
	item := newAccountItem(acc)
	set := []string{"displayName = :displayName"}
	values := map[string]types.AttributeValue{
		":id":          str(item.ID),
		":displayName": str(item.DisplayName),
	}
	if item.PasswordHash != nil {
		set = append(set, "passwordHash = :passwordHash")
		values[":passwordHash"] = &types.AttributeValueMemberB{Value: item.PasswordHash}
	}
	update := ""
	if item.LastLogin != nil {
		lastLogin, err := attributevalue.Marshal(*item.LastLogin)
		if err != nil {
			return account.Account{}, errors.Wrap(err, "marshalling lastLogin")
		}
		set = append(set, "lastLogin = :lastLogin")
		values[":lastLogin"] = lastLogin
		update = "SET " + strings.Join(set, ", ")
	} else {
		update = "SET " + strings.Join(set, ", ") + " REMOVE lastLogin"
	}

	out, err := repo.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(repo.table),
		Key:                       map[string]types.AttributeValue{"email": str(item.Email)},
		UpdateExpression:          aws.String(update),
		ConditionExpression:       aws.String("attribute_exists(email) AND id = :id"),
		ExpressionAttributeValues: values,
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		if isConditionFailed(err) {
			return account.Account{}, account.ErrNotFound
		}
		return account.Account{}, errors.Wrap(err, "updating account")
	}
	var updated accountItem
	if err = attributevalue.UnmarshalMap(out.Attributes, &updated); err != nil {
		return account.Account{}, errors.Wrap(err, "unmarshalling account")
	}
	return updated.account(), nil
}

// Profiles

type profileRepository struct {
	client Client
	table  string
}

var _ profile.Repository = (*profileRepository)(nil)

func NewProfileRepository(client Client, tables Tables) profile.Repository {
	return &profileRepository{client: client, table: tables.Users}
}

func (repo *profileRepository) GetProfile(ctx context.Context, uid string) (profile.Profile, error) {
	out, err := repo.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(repo.table),
		Key:            map[string]types.AttributeValue{"uid": str(uid)},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return profile.Profile{}, errors.Wrap(err, "getting profile")
	}
	if out.Item == nil {
		return profile.Profile{}, profile.ErrNotFound
	}
	var item userItem
	if err = attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return profile.Profile{}, errors.Wrap(err, "unmarshalling profile")
	}
	p := item.profile()
	if _, ok := out.Item["appliedCourses"].(*types.AttributeValueMemberL); ok && p.AppliedCourses == nil {
		p.AppliedCourses = []int{}
	}
	return p, nil
}

// SaveProfile writes every scalar field with a single UpdateItem, which creates the item when missing.
func (repo *profileRepository) SaveProfile(ctx context.Context, uid string, p profile.Profile) error {
	status := p.Status
	if status == "" {
		status = profile.StatusNotSpecified
	}
	fields := []struct {
		name  string
		value string
	}{
		{"name", p.Name},
		{"email", p.Email},
		{"firstName", p.FirstName},
		{"lastName", p.LastName},
		{"dob", p.DOB},
		{"whatsappNumber", p.WhatsappNumber},
		{"status", string(status)},
		{"schoolOrCompany", p.SchoolOrCompany},
		{"tenthMarks", p.TenthMarks},
		{"tenthSchool", p.TenthSchool},
		{"twelfthMarks", p.TwelfthMarks},
		{"twelfthSchool", p.TwelfthSchool},
	}

	set := make([]string, 0, len(fields)+1)
	names := make(map[string]string, len(fields)+1)
	values := make(map[string]types.AttributeValue, len(fields)+1)
	for _, f := range fields {
		// "name" and "status" are reserved words
		set = append(set, "#"+f.name+" = :"+f.name)
		names["#"+f.name] = f.name
		values[":"+f.name] = str(f.value)
	}
	if p.AppliedCourses != nil {
		applied, err := attributevalue.Marshal(p.AppliedCourses)
		if err != nil {
			return errors.Wrap(err, "marshalling appliedCourses")
		}
		set = append(set, "#appliedCourses = :appliedCourses")
		names["#appliedCourses"] = "appliedCourses"
		values[":appliedCourses"] = applied
	}

	_, err := repo.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(repo.table),
		Key:                       map[string]types.AttributeValue{"uid": str(uid)},
		UpdateExpression:          aws.String("SET " + strings.Join(set, ", ")),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	})
	if err != nil {
		return errors.Wrap(err, "updating profile")
	}
	return nil
}

// Applications

type applicationRepository struct {
	client Client
	table  string
}

var _ application.Repository = (*applicationRepository)(nil)

func NewApplicationRepository(client Client, tables Tables) application.Repository {
	return &applicationRepository{client: client, table: tables.Applications}
}

func (repo *applicationRepository) CreateApplication(ctx context.Context, app application.Application) (application.Application, error) {
	item, err := attributevalue.MarshalMap(newApplicationItem(app))
	if err != nil {
		return application.Application{}, errors.Wrap(err, "marshalling application")
	}
	_, err = repo.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(repo.table),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	})
	if err != nil {
		return application.Application{}, errors.Wrap(err, "putting application")
	}
	return app, nil
}

func (repo *applicationRepository) QueryCourseIDsByEmail(ctx context.Context, email string) ([]int, error) {
	p := dynamodb.NewQueryPaginator(repo.client, &dynamodb.QueryInput{
		TableName:                 aws.String(repo.table),
		IndexName:                 aws.String(ApplicationsEmailIndex),
		KeyConditionExpression:    aws.String("email = :email"),
		ExpressionAttributeValues: map[string]types.AttributeValue{":email": str(email)},
		ProjectionExpression:      aws.String("courseId"),
		ScanIndexForward:          aws.Bool(true),
	})

	ids := make([]int, 0)
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "querying applications by email")
		}
		var items []struct {
			CourseID int `dynamodbav:"courseId"`
		}
		if err = attributevalue.UnmarshalListOfMaps(page.Items, &items); err != nil {
			return nil, errors.Wrap(err, "unmarshalling applications")
		}
		for _, it := range items {
			ids = append(ids, it.CourseID)
		}
	}
	return ids, nil
}

func (repo *applicationRepository) QueryAllApplications(ctx context.Context) ([]application.Application, error) {
	p := dynamodb.NewScanPaginator(repo.client, &dynamodb.ScanInput{TableName: aws.String(repo.table)})

	apps := make([]application.Application, 0)
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "scanning applications")
		}
		var items []applicationItem
		if err = attributevalue.UnmarshalListOfMaps(page.Items, &items); err != nil {
			return nil, errors.Wrap(err, "unmarshalling applications")
		}
		for _, it := range items {
			apps = append(apps, it.application())
		}
	}
	sort.SliceStable(apps, func(i, j int) bool {
		if apps[i].ApplicationDate.Equal(apps[j].ApplicationDate) {
			return apps[i].ID < apps[j].ID
		}
		return apps[i].ApplicationDate.Before(apps[j].ApplicationDate)
	})
	return apps, nil
}

// Contact submissions

type contactRepository struct {
	client Client
	table  string
}

var _ contact.Repository = (*contactRepository)(nil)

func NewContactRepository(client Client, tables Tables) contact.Repository {
	return &contactRepository{client: client, table: tables.Contact}
}

func (repo *contactRepository) CreateContactSubmission(ctx context.Context, sub contact.Submission) (contact.Submission, error) {
	item, err := attributevalue.MarshalMap(newContactItem(sub))
	if err != nil {
		return contact.Submission{}, errors.Wrap(err, "marshalling contact submission")
	}
	_, err = repo.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(repo.table),
		Item:      item,
	})
	if err != nil {
		return contact.Submission{}, errors.Wrap(err, "putting contact submission")
	}
	return sub, nil
}
